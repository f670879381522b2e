package repositories

import (
	"context"

	"github.com/anonto42/collab/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error)
	CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error)
	DeleteByPostIDs(ctx context.Context, postIDs []uint) error
}

// GormCommentRepository implements CommentRepository on a gorm connection
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return conn(ctx, r.db).Create(comment).Error
}

// GetCommentsByPostID returns the comments of a post, oldest first
func (r *GormCommentRepository) GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := conn(ctx, r.db).Where("post_id = ?", postID).Order("id ASC").Find(&comments).Error
	return comments, err
}

func (r *GormCommentRepository) CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	return countByPost(conn(ctx, r.db).Model(&models.Comment{}), postIDs)
}

func (r *GormCommentRepository) DeleteByPostIDs(ctx context.Context, postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	return conn(ctx, r.db).Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error
}

// countByPost groups rows of q by post_id.
func countByPost(q *gorm.DB, postIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostID uint
		Total  int64
	}
	err := q.Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}
