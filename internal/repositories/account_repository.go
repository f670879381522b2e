package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/collab/backend/internal/models"
	"gorm.io/gorm"
)

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByID(ctx context.Context, id uint) (*models.Account, error)
	GetAccountByHandle(ctx context.Context, handleKey string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByFirebaseUID(ctx context.Context, uid string) (*models.Account, error)
	GetAccountsByIDs(ctx context.Context, ids []uint) ([]models.Account, error)
	ListAccounts(ctx context.Context, topID uint, limit int) ([]models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, id uint) error
}

// GormAccountRepository implements AccountRepository on a gorm connection
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// CreateAccount fails with ErrDuplicate when the handle or email is taken.
func (r *GormAccountRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	return translate(conn(ctx, r.db).Create(account).Error)
}

func (r *GormAccountRepository) GetAccountByID(ctx context.Context, id uint) (*models.Account, error) {
	return r.first(conn(ctx, r.db).Where("id = ?", id))
}

// GetAccountByHandle looks an account up by its canonical handle.
func (r *GormAccountRepository) GetAccountByHandle(ctx context.Context, handleKey string) (*models.Account, error) {
	return r.first(conn(ctx, r.db).Where("account_key = ?", handleKey))
}

func (r *GormAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.first(conn(ctx, r.db).Where("LOWER(email) = LOWER(?)", email))
}

func (r *GormAccountRepository) GetAccountByFirebaseUID(ctx context.Context, uid string) (*models.Account, error) {
	return r.first(conn(ctx, r.db).Where("firebase_uid = ?", uid))
}

func (r *GormAccountRepository) first(q *gorm.DB) (*models.Account, error) {
	var account models.Account
	if err := q.First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *GormAccountRepository) GetAccountsByIDs(ctx context.Context, ids []uint) ([]models.Account, error) {
	accounts := []models.Account{}
	if len(ids) == 0 {
		return accounts, nil
	}
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&accounts).Error
	return accounts, err
}

// ListAccounts returns accounts ordered by id descending, strictly below
// topID when topID > 0.
func (r *GormAccountRepository) ListAccounts(ctx context.Context, topID uint, limit int) ([]models.Account, error) {
	accounts := []models.Account{}
	q := conn(ctx, r.db).Order("id DESC").Limit(limit)
	if topID > 0 {
		q = q.Where("id < ?", topID)
	}
	err := q.Find(&accounts).Error
	return accounts, err
}

func (r *GormAccountRepository) UpdateAccount(ctx context.Context, account *models.Account) error {
	return translate(conn(ctx, r.db).Save(account).Error)
}

// translate maps driver unique violations to ErrDuplicate. It relies on
// gorm.Config.TranslateError being set on the connection.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// DeleteAccount removes the account together with its follow edges and
// the comments, likes and news mutes it owns. Posts are removed by the
// post repository, which may live in another store.
func (r *GormAccountRepository) DeleteAccount(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Account{}, id).Error
	})
}
