package model

type Annotation struct {
	BaseModel
	Data     JSON `gorm:"not null" json:"data"`
	Geometry JSON `gorm:"not null" json:"geometry"`

	ImageID uint  `gorm:"not null;index" json:"imageId"`
	Image   Image `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	SchemaID uint   `gorm:"not null;index" json:"schemaId"`
	Schema   Schema `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CreatedByID *uint `gorm:"index" json:"createdById"`
	CreatedBy   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}

func (a Annotation) TableName() string {
	return "annotations"
}
