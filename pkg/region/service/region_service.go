package service

import (
	"context"

	"agri/entities"
	"agri/pkg/validate"
)

const MaxLevel = 5

type RegionService interface {
	List(ctx context.Context, f RegionFilter) ([]entities.Region, error)
	Get(ctx context.Context, id uint) (*entities.Region, error)
	Children(ctx context.Context, id uint) ([]entities.Region, error)
	Create(ctx context.Context, req RegionRequest) (*entities.Region, error)
	Update(ctx context.Context, id uint, req RegionRequest) (*entities.Region, error)
	Delete(ctx context.Context, id uint) error
	UpdateVisibility(ctx context.Context, id uint, hidden bool) (*entities.Region, error)
}

type RegionFilter struct {
	Level         *int
	IncludeHidden bool
}

type RegionRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	ParentID *uint  `json:"parent_id"`
	Hidden   bool   `json:"hidden"`
}

func (r RegionRequest) Validate() error {
	c := validate.New().
		Required("code", r.Code).
		MaxLen("code", r.Code, 64).
		Required("name", r.Name).
		MaxLen("name", r.Name, 100).
		Between("level", r.Level, 1, MaxLevel)
	if r.ParentID != nil {
		c.Check(*r.ParentID > 0, "parent_id", "must be a positive id")
	}
	return c.Err()
}

type VisibilityRequest struct {
	Hidden *bool `json:"hidden"`
}

func (r VisibilityRequest) Validate() error {
	return validate.New().Check(r.Hidden != nil, "hidden", "is required").Err()
}
