package serviceImp

import (
	"context"
	"strings"

	"agri/entities"
	"agri/pkg/apperr"
	regionRepo "agri/pkg/region/repository"
	"agri/pkg/setting/repository"
	"agri/pkg/setting/service"
	"agri/pkg/store"
)

type settingSvc struct {
	repo    repository.SettingRepository
	regions regionRepo.RegionRepository
	tx      store.Transactor
}

func NewSettingService(repo repository.SettingRepository, regions regionRepo.RegionRepository, tx store.Transactor) service.SettingService {
	return &settingSvc{repo: repo, regions: regions, tx: tx}
}

func (s *settingSvc) Get(ctx context.Context) (*entities.SystemSetting, error) {
	cur, err := s.repo.Current(ctx)
	if err != nil {
		return nil, apperr.FromStore(err, "system setting")
	}
	if cur == nil {
		d := service.Defaults()
		return &d, nil
	}
	return cur, nil
}

func (s *settingSvc) Update(ctx context.Context, req service.SettingRequest) (*entities.SystemSetting, error) {
	req.SecurityStrategy = strings.ToUpper(strings.TrimSpace(req.SecurityStrategy))
	req.NotifyEmail = strings.TrimSpace(req.NotifyEmail)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out *entities.SystemSetting
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if req.DefaultRegionID != nil {
			r, err := s.regions.FindByID(ctx, *req.DefaultRegionID)
			if err != nil {
				return err
			}
			if r == nil {
				return apperr.NotFoundf("default_region_id: region %d not found", *req.DefaultRegionID)
			}
		}
		cur, err := s.repo.Current(ctx)
		if err != nil {
			return err
		}
		if cur == nil {
			d := service.Defaults()
			cur = &d
		}
		apply(cur, req)
		if err := s.repo.Save(ctx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(err, "system setting")
	}
	return out, nil
}

func apply(st *entities.SystemSetting, req service.SettingRequest) {
	st.DefaultRegionID = req.DefaultRegionID
	st.NotifyEmail = req.NotifyEmail
	st.ClusterEnabled = req.ClusterEnabled
	st.PendingChangeCount = req.PendingChangeCount
	if req.SecurityStrategy != "" {
		st.SecurityStrategy = req.SecurityStrategy
	}
	st.AnnouncementTitle = strings.TrimSpace(req.AnnouncementTitle)
	st.AnnouncementContent = req.AnnouncementContent
	st.AnnouncementEnabled = req.AnnouncementEnabled
}
