package services

import (
	"errors"
	"fmt"
)

// Error taxonomy. Specific errors wrap one of these, so callers can match
// either level with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrConflict           = errors.New("conflict")
	ErrPostLocked         = errors.New("post is locked")
	ErrValidation         = errors.New("validation failed")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

var (
	ErrAccountNotFound    = fmt.Errorf("account %w", ErrNotFound)
	ErrPostNotFound       = fmt.Errorf("post %w", ErrNotFound)
	ErrAccountExists      = fmt.Errorf("account already exists: %w", ErrConflict)
	ErrAlreadyLiked       = fmt.Errorf("post already liked: %w", ErrConflict)
	ErrSelfFollow         = fmt.Errorf("cannot follow yourself: %w", ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("invalid account or password: %w", ErrNotAuthorized)
	ErrSystemAccount      = fmt.Errorf("system accounts cannot be deleted: %w", ErrNotAuthorized)
	ErrNotOwner           = fmt.Errorf("caller does not own the post: %w", ErrNotAuthorized)
)

var taxonomy = []error{
	ErrNotFound, ErrNotAuthorized, ErrConflict, ErrPostLocked, ErrValidation, ErrStorageUnavailable,
}

// classified reports whether err already wraps one of the taxonomy errors.
func classified(err error) bool {
	for _, base := range taxonomy {
		if errors.Is(err, base) {
			return true
		}
	}
	return false
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
