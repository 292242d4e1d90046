package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireAdmin accepts a bearer token or the access cookie. When the service
// has no secret every request passes through.
func (s *Service) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Enabled() {
			return next(c)
		}

		raw := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if raw == "" {
			if cookie, err := c.Cookie(AccessCookie); err == nil {
				raw = cookie.Value
			}
		}
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := AccessClaimsFromToken(raw, s.Secret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		if claims.Role != RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}

		c.Set("subject", claims.Subject)
		c.Set("role", claims.Role)
		return next(c)
	}
}

// BearerToken returns the token of an "Authorization: Bearer <token>"
// header, or "" when the header carries none.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
