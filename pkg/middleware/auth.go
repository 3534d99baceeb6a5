package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"agri/pkg/apperr"
)

const (
	RoleAdmin = "ADMIN"

	ctxUID   = "uid"
	ctxRoles = "roles"
)

// JWT verifies HS256 bearer tokens issued elsewhere. Tokens carry the
// username in "sub" and role codes in "roles".
func JWT(secret, issuer string) echo.MiddlewareFunc {
	key := []byte(secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
	)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(key) == 0 {
				return apperr.Unauthorizedf("token verification is not configured")
			}
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if len(auth) <= 7 || !strings.EqualFold(auth[:7], "Bearer ") {
				return apperr.Unauthorizedf("missing bearer token")
			}
			claims := jwt.MapClaims{}
			_, err := parser.ParseWithClaims(strings.TrimSpace(auth[7:]), claims, func(*jwt.Token) (any, error) {
				return key, nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return apperr.Unauthorizedf("token expired")
				}
				return apperr.Unauthorizedf("invalid token")
			}
			sub, _ := claims.GetSubject()
			if sub == "" {
				return apperr.Unauthorizedf("token has no subject")
			}
			setIdentity(c, sub, rolesOf(claims["roles"]))
			return next(c)
		}
	}
}

// Auth picks the development identity or token verification.
func Auth(disabled bool, secret, issuer string) echo.MiddlewareFunc {
	if disabled {
		return DevLogin()
	}
	return JWT(secret, issuer)
}

// RequireRole lets the request through when the caller holds any of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserID(c) == "" {
				return apperr.Unauthorizedf("authentication required")
			}
			for _, have := range Roles(c) {
				for _, want := range roles {
					if strings.EqualFold(have, want) {
						return next(c)
					}
				}
			}
			return apperr.Unauthorizedf("requires role %s", strings.Join(roles, " or "))
		}
	}
}

func UserID(c echo.Context) string {
	v, _ := c.Get(ctxUID).(string)
	return v
}

func Roles(c echo.Context) []string {
	v, _ := c.Get(ctxRoles).([]string)
	return v
}

func setIdentity(c echo.Context, uid string, roles []string) {
	c.Set(ctxUID, uid)
	c.Set(ctxRoles, roles)
}

func rolesOf(v any) []string {
	switch r := v.(type) {
	case string:
		if r == "" {
			return nil
		}
		return []string{strings.ToUpper(r)}
	case []any:
		out := make([]string, 0, len(r))
		for _, x := range r {
			if s, ok := x.(string); ok && s != "" {
				out = append(out, strings.ToUpper(s))
			}
		}
		return out
	}
	return nil
}
