// Package testutil provides shared fixtures for tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/anonto42/collab/backend/internal/repositories"
	"github.com/anonto42/collab/backend/pkg/config"
	"gorm.io/gorm"
)

// NewTestDatabase creates a new in-memory SQLite database with the schema
// migrated. The database is closed when the test completes.
func NewTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Repositories bundles the gorm repositories over one database.
type Repositories struct {
	DB       *gorm.DB
	Accounts *repositories.GormAccountRepository
	Follows  *repositories.GormFollowRepository
	Posts    *repositories.GormPostRepository
	Comments *repositories.GormCommentRepository
	Likes    *repositories.GormLikeRepository
	Tx       *repositories.GormTransactor
}

// NewRepositories opens a test database and wraps it in repositories.
func NewRepositories(t *testing.T) *Repositories {
	t.Helper()
	db := NewTestDatabase(t)
	return &Repositories{
		DB:       db,
		Accounts: repositories.NewGormAccountRepository(db),
		Follows:  repositories.NewGormFollowRepository(db),
		Posts:    repositories.NewGormPostRepository(db),
		Comments: repositories.NewGormCommentRepository(db),
		Likes:    repositories.NewGormLikeRepository(db),
		Tx:       repositories.NewGormTransactor(db),
	}
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
