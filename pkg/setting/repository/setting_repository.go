package repository

import (
	"context"

	"agri/entities"
	"agri/pkg/store"
)

type SettingRepository interface {
	store.Repository[entities.SystemSetting]
	// Current returns the authoritative row (lowest id), or nil when none exists.
	Current(ctx context.Context) (*entities.SystemSetting, error)
}
