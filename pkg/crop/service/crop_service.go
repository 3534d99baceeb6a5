package service

import (
	"context"

	"agri/entities"
	"agri/pkg/validate"
)

type CropService interface {
	List(ctx context.Context, category string) ([]entities.Crop, error)
	Get(ctx context.Context, id uint) (*entities.Crop, error)
	Create(ctx context.Context, req CropRequest) (*entities.Crop, error)
	Update(ctx context.Context, id uint, req CropRequest) (*entities.Crop, error)
	Delete(ctx context.Context, id uint) error
}

// CropRequest is the body of create and update. A blank code is derived
// from the name.
type CropRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

func (r CropRequest) Validate() error {
	return validate.New().
		MaxLen("code", r.Code, 64).
		Required("name", r.Name).
		MaxLen("name", r.Name, 100).
		MaxLen("category", r.Category, 64).
		MaxLen("unit", r.Unit, 32).
		MaxLen("description", r.Description, 500).
		Err()
}
