package entities

import "time"

type DatasetFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	ContentType  string    `gorm:"size:128" json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	StorageKey   string    `gorm:"size:500;not null" json:"storage_key"`
	URL          string    `gorm:"size:500" json:"url"`
	CropID       *uint     `gorm:"index" json:"crop_id"`
	UploadedBy   string    `gorm:"size:64" json:"uploaded_by"`
	RowsImported int       `json:"rows_imported"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
