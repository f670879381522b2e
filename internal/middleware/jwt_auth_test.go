package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/collab/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, key string, claims *models.JwtCustomClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func validClaims(roles ...string) *models.JwtCustomClaims {
	return &models.JwtCustomClaims{
		AccountID: 7,
		Account:   "seven",
		Roles:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func serve(t *testing.T, header string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"account_id": AccountID(c)})
	}, mw...)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad signature", "Bearer " + sign(t, "other-secret", validClaims()), http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, secret, expired), http.StatusUnauthorized},
		{"valid", "Bearer " + sign(t, secret, validClaims()), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.header, JWTAuthMiddleware(secret))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	admin := "Bearer " + sign(t, secret, validClaims(models.RoleAdministrator))
	member := "Bearer " + sign(t, secret, validClaims())

	rec := serve(t, admin, JWTAuthMiddleware(secret), RequireRole(models.RoleAdministrator))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"account_id":7}`, rec.Body.String())

	rec = serve(t, member, JWTAuthMiddleware(secret), RequireRole(models.RoleAdministrator))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
