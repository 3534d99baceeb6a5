package serviceImp

import (
	"context"
	"strings"

	"agri/entities"
	"agri/pkg/apperr"
	"agri/pkg/codes"
	"agri/pkg/crop/repository"
	"agri/pkg/crop/service"
	"agri/pkg/store"
)

type cropSvc struct {
	repo repository.CropRepository
	tx   store.Transactor
}

func NewCropService(repo repository.CropRepository, tx store.Transactor) service.CropService {
	return &cropSvc{repo: repo, tx: tx}
}

func (s *cropSvc) List(ctx context.Context, category string) ([]entities.Crop, error) {
	out, err := s.repo.List(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, apperr.FromStore(err, "crop")
	}
	return out, nil
}

func (s *cropSvc) Get(ctx context.Context, id uint) (*entities.Crop, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "crop")
	}
	if c == nil {
		return nil, apperr.NotFoundf("crop %d not found", id)
	}
	return c, nil
}

func (s *cropSvc) Create(ctx context.Context, req service.CropRequest) (*entities.Crop, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c := &entities.Crop{}
	apply(c, req)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUnique(ctx, c); err != nil {
			return err
		}
		return s.repo.Save(ctx, c)
	})
	if err != nil {
		return nil, apperr.FromStore(err, "crop")
	}
	return c, nil
}

func (s *cropSvc) Update(ctx context.Context, id uint, req service.CropRequest) (*entities.Crop, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out *entities.Crop
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.NotFoundf("crop %d not found", id)
		}
		apply(c, req)
		if err := s.ensureUnique(ctx, c); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(err, "crop")
	}
	return out, nil
}

func (s *cropSvc) Delete(ctx context.Context, id uint) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.NotFoundf("crop %d not found", id)
		}
		used, err := s.repo.IsReferenced(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return apperr.Conflictf("crop %d is referenced by prices, forecast tasks or datasets", id)
		}
		return s.repo.DeleteByID(ctx, id)
	})
	return apperr.FromStore(err, "crop")
}

func apply(c *entities.Crop, req service.CropRequest) {
	c.Name = strings.TrimSpace(req.Name)
	c.Code = codes.Normalize(req.Code)
	if c.Code == "" {
		c.Code = codes.Slugify(c.Name)
	}
	c.Category = strings.TrimSpace(req.Category)
	c.Unit = strings.TrimSpace(req.Unit)
	c.Description = strings.TrimSpace(req.Description)
}

// ensureUnique checks code and name against other crops. The unique indexes
// still decide races between concurrent writers.
func (s *cropSvc) ensureUnique(ctx context.Context, c *entities.Crop) error {
	if other, err := s.repo.FindByCode(ctx, c.Code); err != nil {
		return err
	} else if other != nil && other.ID != c.ID {
		return apperr.Conflictf("crop code %q already exists", c.Code)
	}
	if other, err := s.repo.FindByName(ctx, c.Name); err != nil {
		return err
	} else if other != nil && other.ID != c.ID {
		return apperr.Conflictf("crop name %q already exists", c.Name)
	}
	return nil
}
