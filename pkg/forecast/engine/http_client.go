package engine

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"agri/pkg/apperr"
	"agri/pkg/httpx"
)

type httpClient struct {
	endpoint string
	httpc    *http.Client
}

func NewHTTP(endpoint string, connect, read time.Duration) Client {
	return &httpClient{endpoint: strings.TrimRight(endpoint, "/"), httpc: httpx.NewClient(connect, read)}
}

func (c *httpClient) Forecast(ctx context.Context, req Request) ([]Point, error) {
	var out struct {
		Points []Point `json:"points"`
	}
	if err := httpx.DoJSON(ctx, c.httpc, "forecast engine", http.MethodPost, c.endpoint+"/v1/forecasts", nil, req, &out); err != nil {
		return nil, err
	}
	if len(out.Points) == 0 {
		return nil, apperr.Infra(fmt.Errorf("empty points"), "forecast engine returned no points")
	}
	return out.Points, nil
}

type disabled struct{}

// NewDisabled is used when no engine URL is configured. Every call fails.
func NewDisabled() Client { return disabled{} }

func (disabled) Forecast(context.Context, Request) ([]Point, error) {
	return nil, apperr.New(apperr.Infrastructure, "forecast engine not configured")
}

// New picks the HTTP client when an endpoint is configured.
func New(endpoint string, connect, read time.Duration) Client {
	if strings.TrimSpace(endpoint) == "" {
		return NewDisabled()
	}
	return NewHTTP(endpoint, connect, read)
}
