package serviceImp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri/pkg/apperr"
	"agri/pkg/middleware"
	"agri/pkg/response"
	"agri/pkg/store"
	"agri/pkg/store/storetest"
	"agri/pkg/syslog/repositoryImp"
)

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewLogService(repositoryImp.New(storetest.Open(t)))

	require.NoError(t, svc.Record(ctx, "alice", "POST /api/v1/crops", "/api/v1/crops"))
	require.NoError(t, svc.Record(ctx, "bob", "DELETE /api/v1/crops/:id", "/api/v1/crops/3"))
	require.NoError(t, svc.Record(ctx, "", "PUT /api/v1/settings", strings.Repeat("x", 2000)))
	assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(svc.Record(ctx, "alice", " ", "")))

	page, err := svc.List(ctx, "", store.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, store.DefaultPageSize, page.Size)
	assert.Equal(t, "anonymous", page.Items[0].Username)
	assert.Len(t, page.Items[0].Detail, 1000)

	page, err = svc.List(ctx, "alice", store.PageRequest{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "POST /api/v1/crops", page.Items[0].Action)
}

func TestAuditMiddlewareRecordsMutations(t *testing.T) {
	svc := NewLogService(repositoryImp.New(storetest.Open(t)))
	e := echo.New()
	e.HTTPErrorHandler = response.ErrorHandler(zerolog.Nop())
	e.Use(middleware.DevLogin(), middleware.Audit(svc, zerolog.Nop()))
	e.GET("/crops", func(c echo.Context) error { return response.OK(c, nil) })
	e.POST("/crops", func(c echo.Context) error { return response.Created(c, nil) })
	e.DELETE("/crops/:id", func(c echo.Context) error { return apperr.NotFoundf("crop 9 not found") })

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/crops"},
		{http.MethodPost, "/crops"},
		{http.MethodDelete, "/crops/9"},
	} {
		req := httptest.NewRequest(r.method, r.path, nil)
		req.Header.Set("X-Dev-User", "carol")
		e.ServeHTTP(httptest.NewRecorder(), req)
	}

	page, err := svc.List(context.Background(), "", store.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "carol", page.Items[0].Username)
	assert.Equal(t, "POST /crops", page.Items[0].Action)
}
