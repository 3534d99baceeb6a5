package serviceImp

import (
	"context"
	"strings"

	"agri/entities"
	"agri/pkg/apperr"
	"agri/pkg/codes"
	"agri/pkg/region/repository"
	"agri/pkg/region/service"
	"agri/pkg/store"
)

type regionSvc struct {
	repo repository.RegionRepository
	tx   store.Transactor
}

func NewRegionService(repo repository.RegionRepository, tx store.Transactor) service.RegionService {
	return &regionSvc{repo: repo, tx: tx}
}

func (s *regionSvc) List(ctx context.Context, f service.RegionFilter) ([]entities.Region, error) {
	out, err := s.repo.List(ctx, f.Level, f.IncludeHidden)
	return out, apperr.FromStore(err, "region")
}

func (s *regionSvc) Get(ctx context.Context, id uint) (*entities.Region, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "region")
	}
	return r, nil
}

func (s *regionSvc) Children(ctx context.Context, id uint) ([]entities.Region, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	out, err := s.repo.Children(ctx, id)
	return out, apperr.FromStore(err, "region")
}

func (s *regionSvc) Create(ctx context.Context, req service.RegionRequest) (*entities.Region, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r := &entities.Region{}
	apply(r, req)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkCode(ctx, r); err != nil {
			return err
		}
		if err := s.checkParent(ctx, r); err != nil {
			return err
		}
		return s.repo.Save(ctx, r)
	})
	if err != nil {
		return nil, apperr.FromStore(err, "region")
	}
	return r, nil
}

func (s *regionSvc) Update(ctx context.Context, id uint, req service.RegionRequest) (*entities.Region, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out *entities.Region
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		apply(r, req)
		if err := s.checkCode(ctx, r); err != nil {
			return err
		}
		if err := s.checkParent(ctx, r); err != nil {
			return err
		}
		if err := s.checkChildLevels(ctx, r); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(err, "region")
	}
	return out, nil
}

func (s *regionSvc) Delete(ctx context.Context, id uint) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.find(ctx, id); err != nil {
			return err
		}
		what, err := s.repo.ReferencedBy(ctx, id)
		if err != nil {
			return err
		}
		if what != "" {
			return apperr.Conflictf("region %d is still referenced by %s", id, what)
		}
		return s.repo.DeleteByID(ctx, id)
	})
	return apperr.FromStore(err, "region")
}

func (s *regionSvc) UpdateVisibility(ctx context.Context, id uint, hidden bool) (*entities.Region, error) {
	var out *entities.Region
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.find(ctx, id); err != nil {
			return err
		}
		if err := s.repo.UpdateVisibility(ctx, id, hidden); err != nil {
			return err
		}
		r, err := s.find(ctx, id)
		out = r
		return err
	})
	if err != nil {
		return nil, apperr.FromStore(err, "region")
	}
	return out, nil
}

func (s *regionSvc) find(ctx context.Context, id uint) (*entities.Region, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFoundf("region %d not found", id)
	}
	return r, nil
}

func apply(r *entities.Region, req service.RegionRequest) {
	r.Code = codes.Normalize(req.Code)
	r.Name = strings.TrimSpace(req.Name)
	r.Level = req.Level
	r.ParentID = req.ParentID
	r.Hidden = req.Hidden
}

func (s *regionSvc) checkCode(ctx context.Context, r *entities.Region) error {
	other, err := s.repo.FindByCode(ctx, r.Code)
	if err != nil {
		return err
	}
	if other != nil && other.ID != r.ID {
		return apperr.Conflictf("region code %q already exists", r.Code)
	}
	return nil
}

// checkParent requires the parent to exist, sit at a shallower level and not
// be the region itself or one of its descendants.
func (s *regionSvc) checkParent(ctx context.Context, r *entities.Region) error {
	if r.ParentID == nil {
		return nil
	}
	if r.ID != 0 && *r.ParentID == r.ID {
		return apperr.Invalid("parent_id", "must not reference the region itself")
	}
	parent, err := s.repo.FindByID(ctx, *r.ParentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return apperr.NotFoundf("parent_id: region %d not found", *r.ParentID)
	}
	if r.Level <= parent.Level {
		return apperr.Invalid("level", "must be greater than the parent level")
	}
	if r.ID == 0 {
		return nil
	}
	seen := map[uint]bool{r.ID: true}
	for cur := parent; cur != nil && cur.ParentID != nil; {
		if seen[*cur.ParentID] {
			return apperr.Invalid("parent_id", "would create a cycle")
		}
		seen[cur.ID] = true
		next, err := s.repo.FindByID(ctx, *cur.ParentID)
		if err != nil {
			return err
		}
		cur = next
	}
	return nil
}

func (s *regionSvc) checkChildLevels(ctx context.Context, r *entities.Region) error {
	children, err := s.repo.Children(ctx, r.ID)
	if err != nil {
		return err
	}
	for _, ch := range children {
		if ch.Level <= r.Level {
			return apperr.Invalid("level", "must stay below the level of every child region")
		}
	}
	return nil
}
