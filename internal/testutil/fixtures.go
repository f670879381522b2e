package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/anonto42/collab/backend/internal/identity"
	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/repositories"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

// CreateAccount stores an account with the given handle and fake profile
// data. The password hash is left empty.
func CreateAccount(t *testing.T, repo repositories.AccountRepository, handle string) *models.Account {
	t.Helper()
	email := strings.ToLower(handle + "." + gofakeit.Email())
	account := &models.Account{
		Handle:    handle,
		HandleKey: strings.ToLower(handle),
		Name:      gofakeit.Name(),
		Email:     email,
		PictureID: identity.Hash(email),
		Location:  gofakeit.City(),
		Bio:       gofakeit.Sentence(8),
	}
	require.NoError(t, repo.CreateAccount(context.Background(), account))
	return account
}

// Handle returns a random handle that passes validation.
func Handle() string {
	return "user_" + strings.ToLower(gofakeit.LetterN(10))
}

// Paragraph returns fake post content without @ or # tokens.
func Paragraph() string {
	return gofakeit.Sentence(12)
}
