package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/services"
	"github.com/anonto42/collab/backend/pkg/firebase"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const tokenTTL = 72 * time.Hour

// TokenVerifier verifies Firebase ID tokens. *auth.Client implements it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	accounts     *services.AccountService
	firebaseAuth TokenVerifier
	jwtSecret    string
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil, in which
// case Firebase login answers 503.
func NewAuthHandler(accounts *services.AccountService, firebaseAuth TokenVerifier, jwtSecret string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:     accounts,
		firebaseAuth: firebaseAuth,
		jwtSecret:    jwtSecret,
		logger:       logger,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// SignIn authenticates with account handle and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.Authenticate(c.Request().Context(), req.Account, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid account or password")
		}
		return serviceError(h.logger, err)
	}

	token, err := h.generateJWT(account)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return ok(c, http.StatusOK, echo.Map{"token": token})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin exchanges a Firebase ID token for a local JWT. The Firebase
// identity must match an existing account by email.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}

	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}
	account, err := h.accounts.LinkFirebase(ctx, token.UID, firebase.Email(token))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "No account matches this Firebase identity")
		}
		return serviceError(h.logger, err)
	}

	localJWT, err := h.generateJWT(account)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate local JWT")
	}
	return ok(c, http.StatusOK, echo.Map{"token": localJWT})
}

// generateJWT generates a JWT token for a given account
func (h *AuthHandler) generateJWT(account *models.Account) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		AccountID: account.ID,
		Account:   account.Handle,
		Roles:     account.RoleList(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
