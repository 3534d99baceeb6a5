package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri/pkg/apperr"
)

func TestForecastRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecasts", r.URL.Path)
		var req Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "arima-1", req.Model.Name)
		assert.Equal(t, 2, req.Horizon)
		assert.Len(t, req.History, 2)
		_, _ = w.Write([]byte(`{"points":[{"year":2024,"value":"10.5","lower":"9","upper":"12"},{"year":2025,"value":11,"lower":9.5,"upper":12.5}]}`))
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL+"/", time.Second, time.Second)
	pts, err := c.Forecast(context.Background(), Request{
		Model:   ModelSpec{Name: "arima-1", Algorithm: "ARIMA", Hyperparameters: json.RawMessage(`{"p":1}`)},
		History: []Observation{{Year: 2022, Price: decimal.NewFromInt(9)}, {Year: 2023, Price: decimal.NewFromInt(10)}},
		Horizon: 2,
	})
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, 2024, pts[0].Year)
	assert.True(t, pts[1].Upper.Equal(decimal.RequireFromString("12.5")))
}

func TestForecastFailuresAreInfrastructure(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer slow.Close()
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"points":[]}`))
	}))
	defer empty.Close()

	ctx := context.Background()
	_, err := NewHTTP(failing.URL, time.Second, time.Second).Forecast(ctx, Request{Horizon: 1})
	assert.Equal(t, apperr.Infrastructure, apperr.CodeOf(err))

	_, err = NewHTTP(slow.URL, 50*time.Millisecond, 50*time.Millisecond).Forecast(ctx, Request{Horizon: 1})
	assert.Equal(t, apperr.Infrastructure, apperr.CodeOf(err))

	_, err = NewHTTP(empty.URL, time.Second, time.Second).Forecast(ctx, Request{Horizon: 1})
	assert.Equal(t, apperr.Infrastructure, apperr.CodeOf(err))

	_, err = New("", time.Second, time.Second).Forecast(ctx, Request{Horizon: 1})
	assert.Equal(t, apperr.Infrastructure, apperr.CodeOf(err))
}
