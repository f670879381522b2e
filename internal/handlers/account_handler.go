package handlers

import (
	"log/slog"
	"net/http"

	"github.com/anonto42/collab/backend/internal/middleware"
	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AccountHandler serves the caller's own account
type AccountHandler struct {
	accounts *services.AccountService
	logger   *slog.Logger
}

func NewAccountHandler(accounts *services.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// RegisterAccountRoutes registers own-account routes
func (h *AccountHandler) RegisterAccountRoutes(g *echo.Group) {
	g.GET("/account", h.GetAccount)
	g.PUT("/account", h.UpdateAccount)
	g.PUT("/account/password", h.ChangePassword)
}

// GetAccount retrieves the authenticated account
func (h *AccountHandler) GetAccount(c echo.Context) error {
	account, err := h.accounts.GetAccountByID(c.Request().Context(), middleware.AccountID(c))
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, account)
}

// UpdateAccount replaces the editable profile fields
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	var req models.UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.UpdateAccount(c.Request().Context(), middleware.AccountID(c), req)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, account)
}

func (h *AccountHandler) ChangePassword(c echo.Context) error {
	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), middleware.AccountID(c), req); err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, echo.Map{"changed": true})
}
