package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/services"
	"github.com/anonto42/collab/backend/internal/testutil"
	"github.com/anonto42/collab/backend/internal/validators"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubVerifier map[string]*auth.Token

func (s stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if token, ok := s[idToken]; ok {
		return token, nil
	}
	return nil, errors.New("invalid token")
}

func newAuthServer(t *testing.T, verifier TokenVerifier) (*echo.Echo, *models.Account) {
	t.Helper()
	repos := testutil.NewRepositories(t)
	logger := testutil.DiscardLogger()
	accounts := services.NewAccountService(repos.Accounts, repos.Posts, repos.Comments, repos.Likes, repos.Tx, testutil.FixedClock(), logger)
	account := testutil.CreateAccount(t, repos.Accounts, "linked")

	e := echo.New()
	e.Validator = validators.NewValidator()
	NewAuthHandler(accounts, verifier, testSecret, logger).RegisterAuthRoutes(e.Group("/auth"))
	return e, account
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFirebaseLogin(t *testing.T) {
	verifier := stubVerifier{}
	e, account := newAuthServer(t, verifier)
	verifier["good"] = &auth.Token{UID: "fb-1", Claims: map[string]interface{}{"email": strings.ToUpper(account.Email), "email_verified": true}}
	verifier["stranger"] = &auth.Token{UID: "fb-2", Claims: map[string]interface{}{"email": "nobody@example.com"}}
	verifier["unverified"] = &auth.Token{UID: "fb-3", Claims: map[string]interface{}{"email": account.Email, "email_verified": false}}

	rec := postJSON(e, "/auth/firebase-login", `{"idToken":"good"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	claims := &models.JwtCustomClaims{}
	_, err := jwt.ParseWithClaims(body.Data.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
	assert.Equal(t, "linked", claims.Account)

	for _, idToken := range []string{"stranger", "unverified", "forged"} {
		rec = postJSON(e, "/auth/firebase-login", `{"idToken":"`+idToken+`"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, idToken)
	}

	rec = postJSON(e, "/auth/firebase-login", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFirebaseLogin_NotConfigured(t *testing.T) {
	e, _ := newAuthServer(t, nil)
	rec := postJSON(e, "/auth/firebase-login", `{"idToken":"good"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
