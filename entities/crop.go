package entities

import "time"

type Crop struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Category    string    `gorm:"size:64;index" json:"category"`
	Unit        string    `gorm:"size:32" json:"unit"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
