package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri/entities"
	"agri/pkg/account/repositoryImp"
	"agri/pkg/middleware"
	"agri/pkg/response"
	"agri/pkg/store/storetest"
)

func TestWhoAmI(t *testing.T) {
	db := storetest.Open(t)
	require.NoError(t, db.Create(&entities.User{Username: "dev-admin", DisplayName: "Dev", Status: entities.UserActive}).Error)
	ctrl := NewAuthController(repositoryImp.NewUserRepository(db))

	e := echo.New()
	e.HTTPErrorHandler = response.ErrorHandler(zerolog.Nop())
	e.GET("/whoami", ctrl.WhoAmI, middleware.DevLogin())
	e.GET("/anon", ctrl.WhoAmI)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data identity `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, middleware.DevUser, body.Data.UID)
	assert.Equal(t, []string{middleware.RoleAdmin}, body.Data.Roles)
	require.NotNil(t, body.Data.User)
	assert.Equal(t, "Dev", body.Data.User.DisplayName)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anon", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
