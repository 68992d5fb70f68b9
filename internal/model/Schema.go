package model

// Schema is a JSON-Schema document describing the data of annotations in a collection.
type Schema struct {
	BaseModel
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Color    string `gorm:"type:varchar(20);not null;default:'#3388ff'" json:"color"`
	Document JSON   `gorm:"not null" json:"schema"`
	UISchema JSON   `json:"uiSchema"`

	CollectionID uint       `gorm:"not null;index" json:"collectionId"`
	Collection   Collection `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (s Schema) TableName() string {
	return "schemas"
}
