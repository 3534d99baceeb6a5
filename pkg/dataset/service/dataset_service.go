package service

import (
	"context"

	"agri/entities"
	priceService "agri/pkg/price/service"
	"agri/pkg/validate"
)

// MaxUploadBytes bounds a single dataset file.
const MaxUploadBytes = 20 << 20

type DatasetService interface {
	// Upload stores the file and, for xlsx workbooks, imports its price rows
	// in the same transaction that records the dataset.
	Upload(ctx context.Context, req UploadRequest, uploadedBy string) (*UploadResult, error)
	List(ctx context.Context, cropID *uint) ([]entities.DatasetFile, error)
	Get(ctx context.Context, id uint) (*entities.DatasetFile, error)
	// Delete keeps imported prices but clears their dataset reference.
	Delete(ctx context.Context, id uint) error
}

type UploadRequest struct {
	Name        string
	ContentType string
	Data        []byte
	CropID      *uint
	// Source labels imported rows that do not name one; defaults to the file name.
	Source string
}

func (r UploadRequest) Validate() error {
	c := validate.New().
		Required("name", r.Name).
		MaxLen("name", r.Name, 255).
		MaxLen("content_type", r.ContentType, 128).
		MaxLen("source", r.Source, 128).
		Check(len(r.Data) > 0, "file", "must not be empty").
		Check(len(r.Data) <= MaxUploadBytes, "file", "must be at most 20 MiB")
	if r.CropID != nil {
		c.Check(*r.CropID > 0, "crop_id", "must be a positive id")
	}
	return c.Err()
}

type UploadResult struct {
	Dataset *entities.DatasetFile      `json:"dataset"`
	Import  *priceService.ImportResult `json:"import,omitempty"`
}
