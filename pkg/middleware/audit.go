package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AuditRecorder appends one system log entry.
type AuditRecorder interface {
	Record(ctx context.Context, username, action, detail string) error
}

// Audit records every successful mutating request after the handler ran.
func Audit(rec AuditRecorder, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			req := c.Request()
			switch req.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				return err
			}
			if err != nil || c.Response().Status >= 400 {
				return err
			}
			action := req.Method + " " + c.Path()
			detail := req.URL.RequestURI()
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				detail = fmt.Sprintf("%s request_id=%s", detail, id)
			}
			if aerr := rec.Record(context.WithoutCancel(req.Context()), UserID(c), action, detail); aerr != nil {
				log.Warn().Err(aerr).Str("action", action).Msg("audit record failed")
			}
			return nil
		}
	}
}
