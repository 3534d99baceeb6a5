package serviceImp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri/entities"
	"agri/pkg/apperr"
	regionRepoImp "agri/pkg/region/repositoryImp"
	"agri/pkg/store/storetest"
	"agri/pkg/weather/provider"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Chiang Mai", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"temperature_c":24,"humidity_pct":81,"precipitation_mm":0,"condition":"Fog"}`))
	}))
	defer srv.Close()

	db := storetest.Open(t)
	region := entities.Region{Code: "TH-50", Name: "Chiang Mai", Level: 1}
	require.NoError(t, db.Create(&region).Error)
	svc := NewWeatherService(regionRepoImp.New(db), provider.NewHTTP(srv.URL, "k", time.Second, time.Second))

	rep, err := svc.Lookup(context.Background(), region.ID)
	require.NoError(t, err)
	assert.Equal(t, region.ID, rep.RegionID)
	assert.Equal(t, "Chiang Mai", rep.RegionName)
	assert.Equal(t, "Fog", rep.Condition)
	assert.False(t, rep.ObservedAt.IsZero())

	_, err = svc.Lookup(context.Background(), 404)
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
}

func TestLookupWithoutProvider(t *testing.T) {
	db := storetest.Open(t)
	region := entities.Region{Code: "TH-10", Name: "Bangkok", Level: 1}
	require.NoError(t, db.Create(&region).Error)
	svc := NewWeatherService(regionRepoImp.New(db), provider.New("", "", time.Second, time.Second))

	_, err := svc.Lookup(context.Background(), region.ID)
	assert.Equal(t, apperr.Infrastructure, apperr.CodeOf(err))
}
