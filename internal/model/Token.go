package model

// Token is an issued refresh session. Only a hash of the refresh token is stored.
type Token struct {
	BaseModel
	RefreshTokenHash string `gorm:"type:text;not null;uniqueIndex" json:"-"`
	CanRefresh       bool   `gorm:"not null;default:true" json:"canRefresh"`

	UserID uint `gorm:"not null;index" json:"userId"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (t Token) TableName() string {
	return "tokens"
}
