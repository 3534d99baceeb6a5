package response

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"agri/pkg/apperr"
	"agri/pkg/store"
)

// ParamID parses a positive integer path parameter.
func ParamID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Invalid(name, "must be a positive integer")
	}
	return uint(id), nil
}

// QueryUint parses an optional positive integer query parameter.
func QueryUint(c echo.Context, name string) (*uint, error) {
	return ParseUint(name, c.QueryParam(name))
}

// ParseUint parses an optional positive integer; blank means absent.
func ParseUint(name, raw string) (*uint, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, apperr.Invalid(name, "must be a positive integer")
	}
	u := uint(v)
	return &u, nil
}

// QueryInt parses an optional integer query parameter.
func QueryInt(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Invalid(name, "must be an integer")
	}
	return &v, nil
}

// Bind decodes the request body; malformed input is a validation failure.
func Bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}
	return nil
}

// QueryPage reads page and size; absent values take the defaults.
func QueryPage(c echo.Context) (store.PageRequest, error) {
	var p store.PageRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &p); err != nil {
		return p, apperr.Invalid("page", "page and size must be integers")
	}
	return p.Normalize(), nil
}
