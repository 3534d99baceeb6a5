// Package provider talks to the external current-weather API.
package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agri/pkg/apperr"
	"agri/pkg/httpx"
)

// Current is one observation as the provider reports it.
type Current struct {
	TemperatureC    float64   `json:"temperature_c"`
	HumidityPct     float64   `json:"humidity_pct"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	Condition       string    `json:"condition"`
	ObservedAt      time.Time `json:"observed_at"`
}

type Client interface {
	// Current looks a place up by name, with its code as a hint.
	Current(ctx context.Context, name, code string) (*Current, error)
}

type httpClient struct {
	endpoint, key string
	httpc         *http.Client
}

func NewHTTP(endpoint, key string, connect, read time.Duration) Client {
	return &httpClient{endpoint: strings.TrimRight(endpoint, "/"), key: key, httpc: httpx.NewClient(connect, read)}
}

func (c *httpClient) Current(ctx context.Context, name, code string) (*Current, error) {
	q := url.Values{}
	q.Set("q", name)
	if code != "" {
		q.Set("code", code)
	}
	h := http.Header{}
	if c.key != "" {
		h.Set("X-API-Key", c.key)
	}
	var out Current
	if err := httpx.DoJSON(ctx, c.httpc, "weather provider", http.MethodGet, c.endpoint+"/v1/current?"+q.Encode(), h, nil, &out); err != nil {
		return nil, err
	}
	if out.ObservedAt.IsZero() {
		out.ObservedAt = time.Now().UTC()
	}
	return &out, nil
}

type disabled struct{}

func (disabled) Current(context.Context, string, string) (*Current, error) {
	return nil, apperr.New(apperr.Infrastructure, "weather provider not configured")
}

// New returns a client that always fails when no endpoint is configured.
func New(endpoint, key string, connect, read time.Duration) Client {
	if strings.TrimSpace(endpoint) == "" {
		return disabled{}
	}
	return NewHTTP(endpoint, key, connect, read)
}
