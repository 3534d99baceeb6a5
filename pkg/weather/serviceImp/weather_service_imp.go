package serviceImp

import (
	"context"

	"agri/pkg/apperr"
	regionRepo "agri/pkg/region/repository"
	"agri/pkg/weather/provider"
	"agri/pkg/weather/service"
)

type weatherSvc struct {
	regions regionRepo.RegionRepository
	client  provider.Client
}

func NewWeatherService(regions regionRepo.RegionRepository, client provider.Client) service.WeatherService {
	return &weatherSvc{regions: regions, client: client}
}

func (s *weatherSvc) Lookup(ctx context.Context, regionID uint) (*service.WeatherReport, error) {
	r, err := s.regions.FindByID(ctx, regionID)
	if err != nil {
		return nil, apperr.FromStore(err, "region")
	}
	if r == nil {
		return nil, apperr.NotFoundf("region %d not found", regionID)
	}
	cur, err := s.client.Current(ctx, r.Name, r.Code)
	if err != nil {
		return nil, err
	}
	return &service.WeatherReport{
		RegionID:        r.ID,
		RegionName:      r.Name,
		TemperatureC:    cur.TemperatureC,
		HumidityPct:     cur.HumidityPct,
		PrecipitationMM: cur.PrecipitationMM,
		Condition:       cur.Condition,
		ObservedAt:      cur.ObservedAt,
	}, nil
}
