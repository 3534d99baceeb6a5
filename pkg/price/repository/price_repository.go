package repository

import (
	"context"

	"agri/entities"
	"agri/pkg/store"
)

type PriceFilter struct {
	CropID   *uint
	RegionID *uint
	YearFrom *int
	YearTo   *int
}

type PriceRepository interface {
	store.Repository[entities.PriceRecord]
	List(ctx context.Context, f PriceFilter) ([]entities.PriceRecord, error)
	// FindPoint looks up the record for one (crop, region, year, source) point.
	// A nil region matches rows without a region.
	FindPoint(ctx context.Context, cropID uint, regionID *uint, year int, source string) (*entities.PriceRecord, error)
	// History returns the yearly series of one crop in one region, oldest first.
	History(ctx context.Context, cropID, regionID uint, fromYear, toYear int) ([]entities.PriceRecord, error)
	DetachDataset(ctx context.Context, datasetID uint) error
}
