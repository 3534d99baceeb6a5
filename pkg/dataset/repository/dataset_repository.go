package repository

import (
	"context"

	"agri/entities"
	"agri/pkg/store"
)

type DatasetRepository interface {
	store.Repository[entities.DatasetFile]
	// List returns datasets newest first, optionally for one crop.
	List(ctx context.Context, cropID *uint) ([]entities.DatasetFile, error)
}
