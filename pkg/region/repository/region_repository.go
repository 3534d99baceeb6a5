package repository

import (
	"context"

	"agri/entities"
	"agri/pkg/store"
)

type RegionRepository interface {
	store.Repository[entities.Region]
	FindByCode(ctx context.Context, code string) (*entities.Region, error)
	FindByLevel(ctx context.Context, level int) ([]entities.Region, error)
	List(ctx context.Context, level *int, includeHidden bool) ([]entities.Region, error)
	Children(ctx context.Context, parentID uint) ([]entities.Region, error)
	// UpdateVisibility writes the hidden column only.
	UpdateVisibility(ctx context.Context, id uint, hidden bool) error
	// ReferencedBy names the first kind of row that still points at the region, or "".
	ReferencedBy(ctx context.Context, id uint) (string, error)
}
