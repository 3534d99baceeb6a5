package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"agri/entities"
	"agri/pkg/region/repository"
	"agri/pkg/store"
)

type regionRepo struct {
	*store.GormRepository[entities.Region]
}

func New(db *gorm.DB) repository.RegionRepository {
	return &regionRepo{store.NewGormRepository[entities.Region](db)}
}

func (r *regionRepo) FindByCode(ctx context.Context, code string) (*entities.Region, error) {
	return store.First[entities.Region](r.DB(ctx), "code = ?", code)
}

func (r *regionRepo) FindByLevel(ctx context.Context, level int) ([]entities.Region, error) {
	return r.List(ctx, &level, true)
}

func (r *regionRepo) List(ctx context.Context, level *int, includeHidden bool) ([]entities.Region, error) {
	q := r.DB(ctx).Model(&entities.Region{})
	if level != nil {
		q = q.Where("level = ?", *level)
	}
	if !includeHidden {
		q = q.Where("hidden = ?", false)
	}
	var out []entities.Region
	return out, q.Order("level ASC, id ASC").Find(&out).Error
}

func (r *regionRepo) Children(ctx context.Context, parentID uint) ([]entities.Region, error) {
	var out []entities.Region
	return out, r.DB(ctx).Where("parent_id = ?", parentID).Order("id ASC").Find(&out).Error
}

func (r *regionRepo) UpdateVisibility(ctx context.Context, id uint, hidden bool) error {
	return r.DB(ctx).Model(&entities.Region{ID: id}).UpdateColumn("hidden", hidden).Error
}

func (r *regionRepo) ReferencedBy(ctx context.Context, id uint) (string, error) {
	checks := []struct {
		what  string
		model any
		query string
	}{
		{"child regions", &entities.Region{}, "parent_id = ?"},
		{"forecast tasks", &entities.ForecastTask{}, "region_id = ?"},
		{"price records", &entities.PriceRecord{}, "region_id = ?"},
		{"system settings", &entities.SystemSetting{}, "default_region_id = ?"},
	}
	db := r.DB(ctx)
	for _, c := range checks {
		var n int64
		if err := db.Model(c.model).Where(c.query, id).Limit(1).Count(&n).Error; err != nil {
			return "", err
		}
		if n > 0 {
			return c.what, nil
		}
	}
	return "", nil
}
