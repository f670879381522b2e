package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/collab/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations. List
// methods page by id: descending below topID, or ascending above afterID.
// A topID of 0 starts at the newest post.
type PostRepository interface {
	// CreatePost stores the post with its Mentions and Tags as one unit.
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID, topID uint, limit int) ([]models.Post, error)
	GetPostsByTag(ctx context.Context, tag string, topID uint, limit int) ([]models.Post, error)
	GetPostsByMention(ctx context.Context, account string, topID uint, limit int) ([]models.Post, error)
	GetNews(ctx context.Context, filter NewsFilter, topID uint, limit int) ([]models.Post, error)
	GetNewsAfter(ctx context.Context, filter NewsFilter, afterID uint, limit int) ([]models.Post, error)
	CountNewsAfter(ctx context.Context, filter NewsFilter, afterID uint) (int64, error)
	CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error)
	// MutePost hides the post from the viewer's news. It reports false
	// when the post was already muted.
	MutePost(ctx context.Context, viewerID, postID uint) (bool, error)
	IsMuted(ctx context.Context, viewerID, postID uint) (bool, error)
	SetReadonly(ctx context.Context, postID uint, readonly bool) error
	DeletePost(ctx context.Context, postID uint) (bool, error)
	// PostIDsByAuthor lists the ids of every post of the author.
	PostIDsByAuthor(ctx context.Context, authorID uint) ([]uint, error)
	// DeletePostsByAuthor removes every post of the author and the mutes
	// the author holds, returning the ids of the removed posts.
	DeletePostsByAuthor(ctx context.Context, authorID uint) ([]uint, error)
}

// GormPostRepository implements PostRepository on a gorm connection
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		if len(post.Mentions) > 0 {
			mentions := make([]models.Mention, 0, len(post.Mentions))
			for _, account := range post.Mentions {
				mentions = append(mentions, models.Mention{PostID: post.ID, Account: account})
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&mentions).Error; err != nil {
				return err
			}
		}

		if len(post.Tags) == 0 {
			return nil
		}
		tags := make([]models.HashTag, 0, len(post.Tags))
		for _, name := range post.Tags {
			tags = append(tags, models.HashTag{Name: name})
		}
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&tags).Error; err != nil {
			return err
		}
		var stored []models.HashTag
		if err := tx.Where("name IN ?", post.Tags).Find(&stored).Error; err != nil {
			return err
		}
		tagIDs := make(map[string]uint, len(stored))
		for _, t := range stored {
			tagIDs[t.Name] = t.ID
		}
		links := make([]models.PostTag, 0, len(post.Tags))
		for _, name := range post.Tags {
			links = append(links, models.PostTag{PostID: post.ID, TagID: tagIDs[name]})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
}

func (r *GormPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := conn(ctx, r.db).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	posts := []models.Post{post}
	if err := r.loadAnnotations(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (r *GormPostRepository) GetPostsByAuthor(ctx context.Context, authorID, topID uint, limit int) ([]models.Post, error) {
	return r.pageDesc(ctx, conn(ctx, r.db).Where("author_id = ?", authorID), topID, limit)
}

func (r *GormPostRepository) GetPostsByTag(ctx context.Context, tag string, topID uint, limit int) ([]models.Post, error) {
	sub := r.db.Table("post_tags").
		Select("post_tags.post_id").
		Joins("JOIN hash_tags ON hash_tags.id = post_tags.tag_id").
		Where("hash_tags.name = ?", tag)
	return r.pageDesc(ctx, conn(ctx, r.db).Where("id IN (?)", sub), topID, limit)
}

func (r *GormPostRepository) GetPostsByMention(ctx context.Context, account string, topID uint, limit int) ([]models.Post, error) {
	sub := r.db.Model(&models.Mention{}).Select("post_id").Where("account = ?", account)
	return r.pageDesc(ctx, conn(ctx, r.db).Where("id IN (?)", sub), topID, limit)
}

func (r *GormPostRepository) GetNews(ctx context.Context, filter NewsFilter, topID uint, limit int) ([]models.Post, error) {
	return r.pageDesc(ctx, conn(ctx, r.db).Scopes(r.news(filter)), topID, limit)
}

func (r *GormPostRepository) GetNewsAfter(ctx context.Context, filter NewsFilter, afterID uint, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	err := conn(ctx, r.db).
		Scopes(r.news(filter)).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, r.loadAnnotations(ctx, posts)
}

func (r *GormPostRepository) CountNewsAfter(ctx context.Context, filter NewsFilter, afterID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Post{}).
		Scopes(r.news(filter)).
		Where("id > ?", afterID).
		Count(&count).Error
	return count, err
}

func (r *GormPostRepository) CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (r *GormPostRepository) MutePost(ctx context.Context, viewerID, postID uint) (bool, error) {
	res := conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.NewsMute{UserID: viewerID, PostID: postID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormPostRepository) IsMuted(ctx context.Context, viewerID, postID uint) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.NewsMute{}).
		Where("user_id = ? AND post_id = ?", viewerID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormPostRepository) SetReadonly(ctx context.Context, postID uint, readonly bool) error {
	return conn(ctx, r.db).Model(&models.Post{}).Where("id = ?", postID).Update("readonly", readonly).Error
}

func (r *GormPostRepository) DeletePost(ctx context.Context, postID uint) (bool, error) {
	var deleted bool
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := deleteAnnotations(tx, []uint{postID}); err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, postID)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (r *GormPostRepository) PostIDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	ids := []uint{}
	err := conn(ctx, r.db).Model(&models.Post{}).Where("author_id = ?", authorID).Order("id").Pluck("id", &ids).Error
	return ids, err
}

func (r *GormPostRepository) DeletePostsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	ids := []uint{}
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("author_id = ?", authorID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", authorID).Delete(&models.NewsMute{}).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := deleteAnnotations(tx, ids); err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Post{}).Error
	})
	return ids, err
}

func deleteAnnotations(tx *gorm.DB, postIDs []uint) error {
	if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Mention{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id IN ?", postIDs).Delete(&models.PostTag{}).Error; err != nil {
		return err
	}
	return tx.Where("post_id IN ?", postIDs).Delete(&models.NewsMute{}).Error
}

func (r *GormPostRepository) news(filter NewsFilter) func(*gorm.DB) *gorm.DB {
	muted := r.db.Model(&models.NewsMute{}).Select("post_id").Where("user_id = ?", filter.ViewerID)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("author_id IN ?", filter.AuthorIDs).Where("id NOT IN (?)", muted)
	}
}

func (r *GormPostRepository) pageDesc(ctx context.Context, q *gorm.DB, topID uint, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	q = q.WithContext(ctx).Order("id DESC").Limit(limit)
	if topID > 0 {
		q = q.Where("id < ?", topID)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, r.loadAnnotations(ctx, posts)
}

// loadAnnotations fills Mentions and Tags for a page of posts with one
// query per kind.
func (r *GormPostRepository) loadAnnotations(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	index := make(map[uint]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = i
		posts[i].Mentions = []string{}
		posts[i].Tags = []string{}
	}

	var mentions []models.Mention
	if err := conn(ctx, r.db).Where("post_id IN ?", ids).Order("id").Find(&mentions).Error; err != nil {
		return err
	}
	for _, m := range mentions {
		i := index[m.PostID]
		posts[i].Mentions = append(posts[i].Mentions, m.Account)
	}

	var tags []struct {
		PostID uint
		Name   string
	}
	err := conn(ctx, r.db).Table("post_tags").
		Select("post_tags.post_id, hash_tags.name").
		Joins("JOIN hash_tags ON hash_tags.id = post_tags.tag_id").
		Where("post_tags.post_id IN ?", ids).
		Order("post_tags.id").
		Scan(&tags).Error
	if err != nil {
		return err
	}
	for _, t := range tags {
		i := index[t.PostID]
		posts[i].Tags = append(posts[i].Tags, t.Name)
	}
	return nil
}
