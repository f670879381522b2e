// Package services implements the social graph, feed and account
// operations on top of the repositories.
package services

import (
	"context"
	"time"

	"github.com/anonto42/collab/backend/internal/repositories"
)

const (
	// PageSize bounds every paginated list.
	PageSize = 20
	// UpdatesLimit bounds a single GetUpdates call.
	UpdatesLimit = 100

	maxPostLength    = 2000
	maxCommentLength = 1000
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock returns the current UTC time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// inTransaction runs fn in one transaction. Failures of the transaction
// itself are reported as storage errors.
func inTransaction(ctx context.Context, tx repositories.Transactor, op string, fn func(ctx context.Context) error) error {
	err := tx.WithinTransaction(ctx, fn)
	if err != nil && !classified(err) {
		return storageError(op, err)
	}
	return err
}
