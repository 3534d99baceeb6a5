// Package engine talks to the external forecasting service. The service owns
// every model; this side only ships the price history and stores the answer.
package engine

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Client interface {
	Forecast(ctx context.Context, req Request) ([]Point, error)
}

type ModelSpec struct {
	Name            string          `json:"name"`
	Algorithm       string          `json:"algorithm"`
	Hyperparameters json.RawMessage `json:"hyperparameters,omitempty"`
}

type Observation struct {
	Year  int             `json:"year"`
	Price decimal.Decimal `json:"price"`
}

type Request struct {
	Model   ModelSpec     `json:"model"`
	History []Observation `json:"history"`
	Horizon int           `json:"horizon"`
}

// Point is one predicted year with its confidence band.
type Point struct {
	Year  int             `json:"year"`
	Value decimal.Decimal `json:"value"`
	Lower decimal.Decimal `json:"lower"`
	Upper decimal.Decimal `json:"upper"`
}
