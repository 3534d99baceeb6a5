package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri/pkg/apperr"
)

func serve(t *testing.T, h echo.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zerolog.Nop())
	e.GET("/x", h)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestOKEnvelope(t *testing.T) {
	rec, body := serve(t, func(c echo.Context) error { return OK(c, map[string]int{"id": 7}) })
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["code"])
	assert.Equal(t, "success", body["message"])
	assert.Equal(t, map[string]any{"id": float64(7)}, body["data"])
}

func TestErrorEnvelopes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   apperr.Code
	}{
		{"validation", apperr.Invalid("name", "must not be blank"), http.StatusBadRequest, apperr.ValidationFailed},
		{"not found", apperr.NotFoundf("crop %d not found", 9), http.StatusNotFound, apperr.NotFound},
		{"conflict", apperr.Conflictf("crop already exists"), http.StatusConflict, apperr.Conflict},
		{"unauthorized", apperr.Unauthorizedf("missing token"), http.StatusUnauthorized, apperr.Unauthorized},
		{"infrastructure", apperr.Infra(errors.New("dial tcp"), "engine unavailable"), http.StatusServiceUnavailable, apperr.Infrastructure},
		{"plain", errors.New("boom"), http.StatusInternalServerError, apperr.Internal},
		{"echo bind", echo.NewHTTPError(http.StatusBadRequest, "bad json"), http.StatusBadRequest, apperr.ValidationFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := serve(t, func(c echo.Context) error { return tc.err })
			assert.Equal(t, tc.status, rec.Code)
			assert.EqualValues(t, tc.code, body["code"])
			assert.NotEmpty(t, body["message"])
			v, ok := body["data"]
			assert.True(t, ok)
			assert.Nil(t, v)
		})
	}
}

func TestValidationMessageListsFields(t *testing.T) {
	err := apperr.Validation([]apperr.FieldError{{Field: "name", Message: "must not be blank"}, {Field: "code", Message: "too long"}})
	env, status := FromError(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Message, "name")
	assert.Contains(t, env.Message, "code")
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zerolog.Nop())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":40400`)
}
