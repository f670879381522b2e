package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anonto42/collab/backend/internal/annotate"
	"github.com/anonto42/collab/backend/internal/identity"
	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/repositories"
	"github.com/anonto42/collab/backend/internal/validators"
	"golang.org/x/crypto/bcrypt"
)

// AccountService manages accounts and their credentials.
type AccountService struct {
	accounts repositories.AccountRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	likes    repositories.LikeRepository
	tx       repositories.Transactor
	validate *validators.CustomValidator
	clock    Clock
	logger   *slog.Logger
}

func NewAccountService(
	accounts repositories.AccountRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	likes repositories.LikeRepository,
	tx repositories.Transactor,
	clock Clock,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		accounts: accounts,
		posts:    posts,
		comments: comments,
		likes:    likes,
		tx:       tx,
		validate: validators.NewValidator(),
		clock:    clock,
		logger:   logger,
	}
}

// CreateAccount registers a new account. Handles are unique ignoring case.
func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Account, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	key := annotate.Canonical(req.Account)
	existing, err := s.accounts.GetAccountByHandle(ctx, key)
	if err != nil {
		return nil, storageError("check account", err)
	}
	if existing != nil {
		return nil, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	email := normalizeEmail(req.Email)
	account := &models.Account{
		Handle:    req.Account,
		HandleKey: key,
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  string(hash),
		PictureID: identity.Hash(email),
		Roles:     strings.Join(req.Roles, ","),
		System:    req.System,
		CreatedAt: s.clock.Now(),
	}
	if account.Name == "" {
		account.Name = req.Account
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, storageError("create account", err)
	}
	s.logger.Info("account created", "account_id", account.ID, "account", account.Handle)
	return account, nil
}

// Authenticate checks a handle and password pair.
func (s *AccountService) Authenticate(ctx context.Context, handle, password string) (*models.Account, error) {
	account, err := s.accounts.GetAccountByHandle(ctx, annotate.Canonical(handle))
	if err != nil {
		return nil, storageError("load account", err)
	}
	if account == nil || account.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, handle string) (*models.Account, error) {
	account, err := s.accounts.GetAccountByHandle(ctx, annotate.Canonical(handle))
	if err != nil {
		return nil, storageError("load account", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (s *AccountService) GetAccountByID(ctx context.Context, id uint) (*models.Account, error) {
	account, err := s.accounts.GetAccountByID(ctx, id)
	if err != nil {
		return nil, storageError("load account", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// EnsureAccount creates the account described by req unless its handle is
// already taken. It reports whether an account was created.
func (s *AccountService) EnsureAccount(ctx context.Context, req models.CreateAccountRequest) (bool, error) {
	_, err := s.CreateAccount(ctx, req)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrAccountExists):
		return false, nil
	default:
		return false, err
	}
}

// ListAccounts pages through all accounts, newest first.
func (s *AccountService) ListAccounts(ctx context.Context, topID uint) ([]models.Account, error) {
	accounts, err := s.accounts.ListAccounts(ctx, topID, PageSize)
	if err != nil {
		return nil, storageError("list accounts", err)
	}
	return accounts, nil
}

// UpdateAccount replaces the profile fields. An empty name keeps the
// current one; the other fields are cleared when empty. A new email also
// changes the picture id.
func (s *AccountService) UpdateAccount(ctx context.Context, id uint, req models.UpdateAccountRequest) (*models.Account, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	account, err := s.GetAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		account.Name = name
	}
	account.Location = strings.TrimSpace(req.Location)
	account.Website = identity.AddHTTP(req.Website)
	account.Bio = strings.TrimSpace(req.Bio)
	if email := normalizeEmail(req.Email); email != "" && email != account.Email {
		account.Email = email
		account.PictureID = identity.Hash(email)
	}

	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("email already in use: %w", ErrConflict)
		}
		return nil, storageError("update account", err)
	}
	return account, nil
}

// normalizeEmail is applied before every write so the unique index on
// email matches the case-insensitive lookups.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ChangePassword replaces the password after verifying the old one.
func (s *AccountService) ChangePassword(ctx context.Context, id uint, req models.ChangePasswordRequest) error {
	switch {
	case req.OldPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "":
		return validationError("old, new and confirmation passwords are required")
	case req.NewPassword != req.ConfirmPassword:
		return validationError("new password and confirmation do not match")
	case req.NewPassword == req.OldPassword:
		return validationError("new password is the same as the old one")
	case len(req.NewPassword) < 8:
		return validationError("new password must be at least 8 characters")
	}

	account, err := s.GetAccountByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.OldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	account.Password = string(hash)
	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return storageError("update password", err)
	}
	return nil
}

// DeleteAccount removes a non-system account with its posts, the comments
// and likes on those posts, and everything the account authored, in one
// transaction.
func (s *AccountService) DeleteAccount(ctx context.Context, handle string) error {
	account, err := s.GetAccount(ctx, handle)
	if err != nil {
		return err
	}
	if account.System {
		return ErrSystemAccount
	}

	var postIDs []uint
	err = inTransaction(ctx, s.tx, "delete account", func(ctx context.Context) error {
		ids, err := s.posts.PostIDsByAuthor(ctx, account.ID)
		if err != nil {
			return storageError("list posts", err)
		}
		if err := s.comments.DeleteByPostIDs(ctx, ids); err != nil {
			return storageError("delete comments", err)
		}
		if err := s.likes.DeleteByPostIDs(ctx, ids); err != nil {
			return storageError("delete likes", err)
		}
		if err := s.accounts.DeleteAccount(ctx, account.ID); err != nil {
			return storageError("delete account", err)
		}
		// Posts go last; MongoDB posts are outside the transaction.
		postIDs, err = s.posts.DeletePostsByAuthor(ctx, account.ID)
		if err != nil {
			return storageError("delete posts", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("account deleted", "account_id", account.ID, "posts", len(postIDs))
	return nil
}

// LinkFirebase resolves a Firebase identity to a local account, linking it
// by email on first sign-in. It never creates accounts.
func (s *AccountService) LinkFirebase(ctx context.Context, uid, email string) (*models.Account, error) {
	account, err := s.accounts.GetAccountByFirebaseUID(ctx, uid)
	if err != nil {
		return nil, storageError("load account", err)
	}
	if account != nil {
		return account, nil
	}
	if email == "" {
		return nil, ErrAccountNotFound
	}
	account, err = s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, storageError("load account", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	account.FirebaseUID = &uid
	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return nil, storageError("link firebase", err)
	}
	return account, nil
}
