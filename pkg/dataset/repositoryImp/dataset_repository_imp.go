package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"agri/entities"
	"agri/pkg/dataset/repository"
	"agri/pkg/store"
)

type datasetRepo struct {
	*store.GormRepository[entities.DatasetFile]
}

func New(db *gorm.DB) repository.DatasetRepository {
	return &datasetRepo{store.NewGormRepository[entities.DatasetFile](db)}
}

func (r *datasetRepo) List(ctx context.Context, cropID *uint) ([]entities.DatasetFile, error) {
	q := r.DB(ctx).Model(&entities.DatasetFile{})
	if cropID != nil {
		q = q.Where("crop_id = ?", *cropID)
	}
	var out []entities.DatasetFile
	return out, q.Order("id DESC").Find(&out).Error
}
