package model

import "time"

type User struct {
	BaseModel
	Email      string `gorm:"unique;not null;type:citext" json:"email" form:"email" binding:"required,email"`
	FirstName  string `gorm:"type:varchar(100);not null;default:''" json:"firstName" form:"firstName"`
	LastName   string `gorm:"type:varchar(100);not null;default:''" json:"lastName" form:"lastName"`
	ProfileURL string `gorm:"type:text;not null;default:''" json:"profileURL" form:"profileURL"`

	// Identity provider session, refreshed on every login
	AccessToken          string     `gorm:"type:text;not null;default:''" json:"-"`
	AccessTokenExpiresAt *time.Time `gorm:"default:null" json:"-"`
}

func (u User) TableName() string {
	return "users"
}
