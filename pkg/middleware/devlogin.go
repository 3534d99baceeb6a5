package middleware

import (
	"github.com/labstack/echo/v4"
)

const DevUser = "dev-admin"

// DevLogin injects a development identity carrying the ADMIN role. The
// X-Dev-User header or the uid query parameter picks another username.
func DevLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := c.Request().Header.Get("X-Dev-User")
			if uid == "" {
				uid = c.QueryParam("uid")
			}
			if uid == "" {
				uid = DevUser
			}
			setIdentity(c, uid, []string{RoleAdmin})
			return next(c)
		}
	}
}
