package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type PriceRecord struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CropID        uint            `gorm:"not null;uniqueIndex:idx_price_point" json:"crop_id"`
	RegionID      *uint           `gorm:"uniqueIndex:idx_price_point" json:"region_id"`
	Year          int             `gorm:"not null;uniqueIndex:idx_price_point" json:"year"`
	AveragePrice  decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"average_price"`
	Unit          string          `gorm:"size:32" json:"unit"`
	Source        string          `gorm:"size:128;uniqueIndex:idx_price_point" json:"source"`
	DatasetFileID *uint           `gorm:"index" json:"dataset_file_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
