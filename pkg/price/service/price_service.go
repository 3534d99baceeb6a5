package service

import (
	"context"

	"github.com/shopspring/decimal"

	"agri/entities"
	"agri/pkg/price/repository"
	"agri/pkg/validate"
)

const (
	MinYear = 1900
	MaxYear = 2100
)

type PriceService interface {
	List(ctx context.Context, f repository.PriceFilter) ([]entities.PriceRecord, error)
	Get(ctx context.Context, id uint) (*entities.PriceRecord, error)
	Create(ctx context.Context, req PriceRequest) (*entities.PriceRecord, error)
	Update(ctx context.Context, id uint, req PriceRequest) (*entities.PriceRecord, error)
	Delete(ctx context.Context, id uint) error
	// ImportRows validates every row first and then writes all of them or none.
	ImportRows(ctx context.Context, rows []ImportRow, opts ImportOptions) (ImportResult, error)
	ImportFromURL(ctx context.Context, req ImportURLRequest) (ImportResult, error)
}

type PriceRequest struct {
	CropID       uint            `json:"crop_id"`
	RegionID     *uint           `json:"region_id"`
	Year         int             `json:"year"`
	AveragePrice decimal.Decimal `json:"average_price"`
	Unit         string          `json:"unit"`
	Source       string          `json:"source"`
}

func (r PriceRequest) Validate() error {
	c := validate.New().
		Check(r.CropID > 0, "crop_id", "is required").
		Between("year", r.Year, MinYear, MaxYear).
		MinDecimal("average_price", r.AveragePrice, decimal.Zero).
		MaxLen("unit", r.Unit, 32).
		MaxLen("source", r.Source, 128)
	if r.RegionID != nil {
		c.Check(*r.RegionID > 0, "region_id", "must be a positive id")
	}
	return c.Err()
}

// ImportRow is one parsed line of a price sheet. Crop and Region hold codes
// (or, for crops, names) as they appear in the source.
type ImportRow struct {
	Crop         string          `json:"crop"`
	Region       string          `json:"region"`
	Year         int             `json:"year"`
	AveragePrice decimal.Decimal `json:"average_price"`
	Unit         string          `json:"unit"`
	Source       string          `json:"source"`
}

// Validate checks one row; needCrop is false when the caller supplies a
// default crop.
func (r ImportRow) Validate(needCrop bool) *validate.Checker {
	c := validate.New()
	if needCrop {
		c.Required("crop", r.Crop)
	}
	return c.Between("year", r.Year, MinYear, MaxYear).
		MinDecimal("average_price", r.AveragePrice, decimal.Zero).
		MaxLen("region", r.Region, 64).
		MaxLen("unit", r.Unit, 32).
		MaxLen("source", r.Source, 128)
}

type ImportOptions struct {
	DatasetFileID *uint
	// DefaultCropID applies to rows that do not name a crop.
	DefaultCropID *uint
	// Source applies to rows that do not name a source.
	Source string
}

type ImportResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

func (r ImportResult) Total() int { return r.Inserted + r.Updated }

type ImportURLRequest struct {
	URL    string `json:"url"`
	CropID *uint  `json:"crop_id"`
	Source string `json:"source"`
}

func (r ImportURLRequest) Validate() error {
	return validate.New().
		Required("url", r.URL).
		MaxLen("url", r.URL, 2048).
		MaxLen("source", r.Source, 128).
		Err()
}
