package handlers

import (
	"log/slog"
	"net/http"

	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AdminHandler manages accounts on behalf of administrators
type AdminHandler struct {
	accounts *services.AccountService
	logger   *slog.Logger
}

func NewAdminHandler(accounts *services.AccountService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{accounts: accounts, logger: logger}
}

// RegisterAdminRoutes registers account administration routes. The group
// must already be guarded by the administrator role.
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/accounts", h.ListAccounts)
	g.POST("/accounts", h.CreateAccount)
	g.DELETE("/accounts/:account", h.DeleteAccount)
}

func (h *AdminHandler) ListAccounts(c echo.Context) error {
	top, err := topID(c)
	if err != nil {
		return err
	}
	accounts, err := h.accounts.ListAccounts(c.Request().Context(), top)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, accounts)
}

// CreateAccount registers a new account with a local password
func (h *AdminHandler) CreateAccount(c echo.Context) error {
	var req models.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.CreateAccount(c.Request().Context(), req)
	if err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusCreated, account)
}

// DeleteAccount removes an account together with its posts and graph edges
func (h *AdminHandler) DeleteAccount(c echo.Context) error {
	if err := h.accounts.DeleteAccount(c.Request().Context(), c.Param("account")); err != nil {
		return serviceError(h.logger, err)
	}
	return ok(c, http.StatusOK, echo.Map{"deleted": true})
}
