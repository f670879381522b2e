package repositories

import (
	"context"

	"github.com/anonto42/collab/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, followerID, followingID uint) error
	DeleteFollow(ctx context.Context, followerID, followingID uint) error
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	FollowedAmong(ctx context.Context, followerID uint, ids []uint) (map[uint]bool, error)
	GetFollowers(ctx context.Context, userID, topID uint, limit int) ([]models.Account, error)
	GetFollowing(ctx context.Context, userID, topID uint, limit int) ([]models.Account, error)
	GetFollowersCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error)
}

// GormFollowRepository implements FollowRepository on a gorm connection
type GormFollowRepository struct {
	db *gorm.DB
}

// NewGormFollowRepository creates a new GormFollowRepository
func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

// CreateFollow inserts the edge; an existing edge is left untouched.
func (r *GormFollowRepository) CreateFollow(ctx context.Context, followerID, followingID uint) error {
	follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	return conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error
}

// DeleteFollow removes the edge if present.
func (r *GormFollowRepository) DeleteFollow(ctx context.Context, followerID, followingID uint) error {
	return conn(ctx, r.db).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
}

func (r *GormFollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowedAmong reports which of ids are followed by followerID.
func (r *GormFollowRepository) FollowedAmong(ctx context.Context, followerID uint, ids []uint) (map[uint]bool, error) {
	followed := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return followed, nil
	}
	var hits []uint
	err := conn(ctx, r.db).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, ids).
		Pluck("following_id", &hits).Error
	if err != nil {
		return nil, err
	}
	for _, id := range hits {
		followed[id] = true
	}
	return followed, nil
}

func (r *GormFollowRepository) GetFollowers(ctx context.Context, userID, topID uint, limit int) ([]models.Account, error) {
	return r.page(ctx, r.db.Table("follows").Select("follower_id").Where("following_id = ?", userID), topID, limit)
}

func (r *GormFollowRepository) GetFollowing(ctx context.Context, userID, topID uint, limit int) ([]models.Account, error) {
	return r.page(ctx, r.db.Table("follows").Select("following_id").Where("follower_id = ?", userID), topID, limit)
}

func (r *GormFollowRepository) page(ctx context.Context, sub *gorm.DB, topID uint, limit int) ([]models.Account, error) {
	accounts := []models.Account{}
	q := conn(ctx, r.db).Where("id IN (?)", sub).Order("id DESC").Limit(limit)
	if topID > 0 {
		q = q.Where("id < ?", topID)
	}
	err := q.Find(&accounts).Error
	return accounts, err
}

func (r *GormFollowRepository) GetFollowersCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *GormFollowRepository) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// GetFollowingIDs returns every account id userID follows in one query.
func (r *GormFollowRepository) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := conn(ctx, r.db).Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("following_id", &ids).Error
	return ids, err
}
