package model

type Image struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null" json:"name"`
	// Tile source of the image, an IIIF image service base url
	URL    string `gorm:"type:text;not null" json:"url"`
	Width  int    `gorm:"type:integer;not null;default:0" json:"width"`
	Height int    `gorm:"type:integer;not null;default:0" json:"height"`

	CollectionID uint       `gorm:"not null;index" json:"collectionId"`
	Collection   Collection `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// Set when the image was uploaded to object storage
	FileID *uint `json:"-"`
	File   *File `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}

func (i Image) TableName() string {
	return "images"
}
