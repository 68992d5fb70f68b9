package model

type Collection struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;" json:"name"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`

	OwnerID uint   `gorm:"not null;index" json:"ownerId"`
	Owner   User   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"owner"`
	Members []User `gorm:"many2many:collection_members;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"members"`
}

func (c Collection) TableName() string {
	return "collections"
}
