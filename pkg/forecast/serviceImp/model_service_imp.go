package serviceImp

import (
	"bytes"
	"context"
	"strings"

	"gorm.io/datatypes"

	"agri/entities"
	"agri/pkg/apperr"
	"agri/pkg/forecast/repository"
	"agri/pkg/forecast/service"
	"agri/pkg/store"
)

type modelSvc struct {
	repo repository.ModelRepository
	tx   store.Transactor
}

func NewModelService(repo repository.ModelRepository, tx store.Transactor) service.ModelService {
	return &modelSvc{repo: repo, tx: tx}
}

func (s *modelSvc) List(ctx context.Context) ([]entities.ForecastModel, error) {
	out, err := s.repo.FindAll(ctx)
	return out, apperr.FromStore(err, "forecast model")
}

func (s *modelSvc) Get(ctx context.Context, id uint) (*entities.ForecastModel, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "forecast model")
	}
	return m, nil
}

func (s *modelSvc) Create(ctx context.Context, req service.ModelRequest) (*entities.ForecastModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m := &entities.ForecastModel{}
	applyModel(m, req)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkName(ctx, m); err != nil {
			return err
		}
		return s.repo.Save(ctx, m)
	})
	if err != nil {
		return nil, apperr.FromStore(err, "forecast model")
	}
	return m, nil
}

func (s *modelSvc) Update(ctx context.Context, id uint, req service.ModelRequest) (*entities.ForecastModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out *entities.ForecastModel
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		applyModel(m, req)
		if err := s.checkName(ctx, m); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(err, "forecast model")
	}
	return out, nil
}

func (s *modelSvc) Delete(ctx context.Context, id uint) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.find(ctx, id); err != nil {
			return err
		}
		used, err := s.repo.InUse(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return apperr.Conflictf("forecast model %d is used by forecast tasks", id)
		}
		return s.repo.DeleteByID(ctx, id)
	})
	return apperr.FromStore(err, "forecast model")
}

func (s *modelSvc) find(ctx context.Context, id uint) (*entities.ForecastModel, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFoundf("forecast model %d not found", id)
	}
	return m, nil
}

func (s *modelSvc) checkName(ctx context.Context, m *entities.ForecastModel) error {
	other, err := s.repo.FindByName(ctx, m.Name)
	if err != nil {
		return err
	}
	if other != nil && other.ID != m.ID {
		return apperr.Conflictf("forecast model %q already exists", m.Name)
	}
	return nil
}

func applyModel(m *entities.ForecastModel, req service.ModelRequest) {
	m.Name = strings.TrimSpace(req.Name)
	m.Algorithm = strings.TrimSpace(req.Algorithm)
	m.Description = strings.TrimSpace(req.Description)
	raw := bytes.TrimSpace(req.Hyperparameters)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	m.Hyperparameters = datatypes.JSON(raw)
}
