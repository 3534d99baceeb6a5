// Package response writes the uniform JSON envelope every endpoint answers with.
package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"agri/pkg/apperr"
)

// Envelope is {code, message, data}. Data is null on failure.
type Envelope struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
	Data    any         `json:"data"`
}

func OK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Code: apperr.Success, Message: "success", Data: data})
}

func Created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, Envelope{Code: apperr.Success, Message: "success", Data: data})
}

// Fail renders err directly, for handlers that answer without going through
// the error handler. Violated fields are listed in the message.
func Fail(c echo.Context, err error) error {
	env, status := FromError(err)
	return c.JSON(status, env)
}

// FromError maps err onto the envelope and HTTP status.
func FromError(err error) (Envelope, int) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return Envelope{Code: ae.Code, Message: ae.Message}, ae.Code.HTTPStatus()
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := apperr.Internal
		switch {
		case he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed:
			code = apperr.NotFound
		case he.Code == http.StatusUnauthorized || he.Code == http.StatusForbidden:
			code = apperr.Unauthorized
		case he.Code == http.StatusServiceUnavailable:
			code = apperr.Infrastructure
		case he.Code >= 400 && he.Code < 500:
			code = apperr.ValidationFailed
		}
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return Envelope{Code: code, Message: msg}, he.Code
	}
	return Envelope{Code: apperr.Internal, Message: "internal error"}, http.StatusInternalServerError
}

// ErrorHandler is installed as echo's HTTPErrorHandler.
func ErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		env, status := FromError(err)
		switch env.Code {
		case apperr.Internal:
			log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("unhandled error")
		case apperr.Infrastructure:
			log.Warn().Err(err).Str("uri", c.Request().RequestURI).Msg("dependency failure")
		}
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, env)
		}
		if werr != nil {
			log.Error().Err(werr).Msg("write error response")
		}
	}
}
