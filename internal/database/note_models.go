package database

import (
	"time"

	"gorm.io/gorm"
)

// Note metadata record of one uploaded file.
// FileURL always points at the object store copy; PublicID is its key in that store.
// @Description uploaded file metadata
type Note struct {
	ID        uint           `gorm:"primarykey" json:"id" example:"1"`
	Title     string         `gorm:"size:255" json:"title" example:"Data Structures Unit 1"`
	FileURL   string         `gorm:"not null;size:1024" json:"fileUrl" example:"https://res.cloudinary.com/demo/raw/upload/v1/Notes/2023/ds.pdf"`
	PublicID  string         `gorm:"size:512" json:"publicId" example:"Notes/2023/ds.pdf"`
	Year      string         `gorm:"not null;size:32;index" json:"year" example:"2023"`
	Subject   string         `gorm:"not null;size:128;index" json:"subject" example:"Data Structures"`
	Course    string         `gorm:"not null;size:128;index" json:"course" example:"BCA"`
	Type      string         `gorm:"not null;size:64" json:"type" example:"notes"`
	Folder    string         `gorm:"not null;size:255;index" json:"folder" example:"Notes/2023"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName table of Note
func (Note) TableName() string {
	return "notes"
}
