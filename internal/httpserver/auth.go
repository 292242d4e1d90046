package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/altazaj/internal/auth"
	"github.com/Skotchmaster/altazaj/internal/logging"
	"github.com/Skotchmaster/altazaj/internal/transport"
)

type AuthHTTP struct {
	Svc *auth.Service
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	if !h.Svc.Enabled() {
		l.Warn("login_error", "status", 404, "reason", "admin auth is disabled")
		return echo.NewHTTPError(http.StatusNotFound, "admin login is disabled")
	}

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		l.Warn("login_error", "status", 400, "reason", "username and password are required")
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	token, exp, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot issue token")
	}

	c.SetCookie(auth.CreateCookie(auth.AccessCookie, token, "/", exp, h.Svc.SecureCookie))
	return c.JSON(http.StatusOK, transport.LoginResponse{AccessToken: token, ExpiresAt: exp})
}
