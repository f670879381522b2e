package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/collab/backend/internal/services"
	"github.com/anonto42/collab/backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{services.ErrPostNotFound, http.StatusNotFound},
		{services.ErrAccountNotFound, http.StatusNotFound},
		{services.ErrNotOwner, http.StatusForbidden},
		{services.ErrSystemAccount, http.StatusForbidden},
		{services.ErrAlreadyLiked, http.StatusConflict},
		{services.ErrPostLocked, http.StatusLocked},
		{services.ErrSelfFollow, http.StatusBadRequest},
		{fmt.Errorf("get news: %w: %w", services.ErrStorageUnavailable, errors.New("conn refused")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			var he *echo.HTTPError
			require.ErrorAs(t, serviceError(testutil.DiscardLogger(), tt.err), &he)
			assert.Equal(t, tt.status, he.Code)
		})
	}
}

func TestTopID(t *testing.T) {
	e := echo.New()
	tests := []struct {
		query   string
		want    uint
		wantErr bool
	}{
		{"", 0, false},
		{"?topId=42", 42, false},
		{"?topId=-1", 0, true},
		{"?topId=abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil), httptest.NewRecorder())
			got, err := topID(c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
