package service

import (
	"context"
	"time"
)

// WeatherReport is answered as-is and never stored.
type WeatherReport struct {
	RegionID        uint      `json:"region_id"`
	RegionName      string    `json:"region_name"`
	TemperatureC    float64   `json:"temperature_c"`
	HumidityPct     float64   `json:"humidity_pct"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	Condition       string    `json:"condition"`
	ObservedAt      time.Time `json:"observed_at"`
}

type WeatherService interface {
	Lookup(ctx context.Context, regionID uint) (*WeatherReport, error)
}
