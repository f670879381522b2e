package repositories

import (
	"context"

	"github.com/anonto42/collab/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, postID, userID uint) error
	HasUserLikedPost(ctx context.Context, postID, userID uint) (bool, error)
	CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error)
	LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error)
	DeleteByPostIDs(ctx context.Context, postIDs []uint) error
}

// GormLikeRepository implements LikeRepository on a gorm connection
type GormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository creates a new GormLikeRepository
func NewGormLikeRepository(db *gorm.DB) *GormLikeRepository {
	return &GormLikeRepository{db: db}
}

// CreateLike fails with ErrDuplicate when the pair already exists.
func (r *GormLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	return translate(conn(ctx, r.db).Create(like).Error)
}

// DeleteLike removes the like if present
func (r *GormLikeRepository) DeleteLike(ctx context.Context, postID, userID uint) error {
	return conn(ctx, r.db).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{}).Error
}

func (r *GormLikeRepository) HasUserLikedPost(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormLikeRepository) CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	return countByPost(conn(ctx, r.db).Model(&models.Like{}), postIDs)
}

// LikedPostIDs reports which of postIDs userID has liked.
func (r *GormLikeRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}
	var ids []uint
	if err := conn(ctx, r.db).Model(&models.Like{}).Where("user_id = ? AND post_id IN ?", userID, postIDs).Pluck("post_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *GormLikeRepository) DeleteByPostIDs(ctx context.Context, postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	return conn(ctx, r.db).Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error
}
