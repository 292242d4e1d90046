package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/altazaj/internal/service"
)

// fail maps a service error onto an HTTP error and logs it under event.
func fail(l *slog.Logger, event string, err error) error {
	var se *service.Error
	msg := "internal server error"
	if errors.As(err, &se) {
		msg = se.Msg
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", msg, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", msg, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, msg)
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "reason", msg, "error", err)
		return echo.NewHTTPError(http.StatusConflict, msg)
	default:
		l.Error(event, "status", 500, "reason", "store failure", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msg)
	}
}

// parseID treats a malformed id like an unknown one: no record can have it.
func parseID(c echo.Context, l *slog.Logger, event, notFoundMsg string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn(event, "status", 404, "reason", "id is not a uuid", "error", err)
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	}
	return id, nil
}
