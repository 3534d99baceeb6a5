package repository

import (
	"context"

	"agri/entities"
	"agri/pkg/store"
)

type CropRepository interface {
	store.Repository[entities.Crop]
	FindByCode(ctx context.Context, code string) (*entities.Crop, error)
	// FindByName matches case-insensitively.
	FindByName(ctx context.Context, name string) (*entities.Crop, error)
	List(ctx context.Context, category string) ([]entities.Crop, error)
	// IsReferenced reports whether prices, forecast tasks or datasets point at the crop.
	IsReferenced(ctx context.Context, id uint) (bool, error)
}
