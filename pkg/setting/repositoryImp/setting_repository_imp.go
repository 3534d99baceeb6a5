package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"agri/entities"
	"agri/pkg/setting/repository"
	"agri/pkg/store"
)

type settingRepo struct {
	*store.GormRepository[entities.SystemSetting]
}

func New(db *gorm.DB) repository.SettingRepository {
	return &settingRepo{store.NewGormRepository[entities.SystemSetting](db)}
}

func (r *settingRepo) Current(ctx context.Context) (*entities.SystemSetting, error) {
	return store.First[entities.SystemSetting](r.DB(ctx), "1 = 1")
}
