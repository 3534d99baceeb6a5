package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"agri/entities"
	"agri/pkg/price/repository"
	"agri/pkg/store"
)

type priceRepo struct {
	*store.GormRepository[entities.PriceRecord]
}

func New(db *gorm.DB) repository.PriceRepository {
	return &priceRepo{store.NewGormRepository[entities.PriceRecord](db)}
}

func (r *priceRepo) List(ctx context.Context, f repository.PriceFilter) ([]entities.PriceRecord, error) {
	q := r.DB(ctx).Model(&entities.PriceRecord{})
	if f.CropID != nil {
		q = q.Where("crop_id = ?", *f.CropID)
	}
	if f.RegionID != nil {
		q = q.Where("region_id = ?", *f.RegionID)
	}
	if f.YearFrom != nil {
		q = q.Where("year >= ?", *f.YearFrom)
	}
	if f.YearTo != nil {
		q = q.Where("year <= ?", *f.YearTo)
	}
	var out []entities.PriceRecord
	return out, q.Order("year ASC, id ASC").Find(&out).Error
}

func (r *priceRepo) FindPoint(ctx context.Context, cropID uint, regionID *uint, year int, source string) (*entities.PriceRecord, error) {
	q := r.DB(ctx).Where("crop_id = ? AND year = ? AND source = ?", cropID, year, source)
	if regionID == nil {
		q = q.Where("region_id IS NULL")
	} else {
		q = q.Where("region_id = ?", *regionID)
	}
	return store.First[entities.PriceRecord](q, "1 = 1")
}

func (r *priceRepo) History(ctx context.Context, cropID, regionID uint, fromYear, toYear int) ([]entities.PriceRecord, error) {
	var out []entities.PriceRecord
	err := r.DB(ctx).
		Where("crop_id = ? AND region_id = ? AND year BETWEEN ? AND ?", cropID, regionID, fromYear, toYear).
		Order("year ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *priceRepo) DetachDataset(ctx context.Context, datasetID uint) error {
	return r.DB(ctx).Model(&entities.PriceRecord{}).
		Where("dataset_file_id = ?", datasetID).
		UpdateColumn("dataset_file_id", nil).Error
}
