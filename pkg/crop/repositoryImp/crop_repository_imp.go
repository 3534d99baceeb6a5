package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"agri/entities"
	"agri/pkg/crop/repository"
	"agri/pkg/store"
)

type cropRepo struct {
	*store.GormRepository[entities.Crop]
}

func New(db *gorm.DB) repository.CropRepository {
	return &cropRepo{store.NewGormRepository[entities.Crop](db)}
}

func (r *cropRepo) FindByCode(ctx context.Context, code string) (*entities.Crop, error) {
	return store.First[entities.Crop](r.DB(ctx), "code = ?", code)
}

func (r *cropRepo) FindByName(ctx context.Context, name string) (*entities.Crop, error) {
	return store.First[entities.Crop](r.DB(ctx), "LOWER(name) = LOWER(?)", name)
}

func (r *cropRepo) List(ctx context.Context, category string) ([]entities.Crop, error) {
	q := r.DB(ctx).Model(&entities.Crop{})
	if category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", category)
	}
	var out []entities.Crop
	return out, q.Order("id ASC").Find(&out).Error
}

func (r *cropRepo) IsReferenced(ctx context.Context, id uint) (bool, error) {
	db := r.DB(ctx)
	for _, m := range []any{&entities.PriceRecord{}, &entities.ForecastTask{}, &entities.DatasetFile{}} {
		var n int64
		if err := db.Model(m).Where("crop_id = ?", id).Limit(1).Count(&n).Error; err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}
