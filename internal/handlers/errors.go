package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/anonto42/collab/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// serviceError maps the service error taxonomy onto HTTP statuses.
func serviceError(logger *slog.Logger, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrPostLocked):
		return echo.NewHTTPError(http.StatusLocked, err.Error())
	case errors.Is(err, services.ErrNotAuthorized):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrStorageUnavailable):
		logger.Error("storage unavailable", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Storage unavailable")
	default:
		logger.Error("unexpected error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// topID parses the optional topId cursor. Missing means the first page.
func topID(c echo.Context) (uint, error) {
	raw := c.QueryParam("topId")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid topId")
	}
	return uint(id), nil
}
