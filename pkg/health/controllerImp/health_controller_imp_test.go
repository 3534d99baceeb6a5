package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri/pkg/store/storetest"
)

func TestHealth(t *testing.T) {
	db := storetest.Open(t)
	e := echo.New()
	e.GET("/health", New(db, map[string]bool{"forecast_engine": false}).Health)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status     struct{ OK bool } `json:"status"`
		Checks     map[string]check  `json:"checks"`
		Configured map[string]bool   `json:"configured"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Status.OK)
	assert.True(t, body.Checks["database"].OK)
	assert.False(t, body.Configured["forecast_engine"])

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
