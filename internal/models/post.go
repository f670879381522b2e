package models

import "time"

// Post is an authored entry on a wall. Mentions and Tags are the canonical
// annotations extracted at creation time.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Readonly  bool      `json:"readonly" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	Mentions  []string  `json:"mentions" gorm:"-"`
	Tags      []string  `json:"tags" gorm:"-"`
}

// Mention links a post to a mentioned account handle.
type Mention struct {
	ID      uint   `gorm:"primaryKey"`
	PostID  uint   `gorm:"not null;uniqueIndex:idx_mention_post_account"`
	Account string `gorm:"type:text;not null;index;uniqueIndex:idx_mention_post_account"`
}

// HashTag names are as long as the token in the post, so the column is
// unbounded.
type HashTag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:text;not null;uniqueIndex"`
}

type PostTag struct {
	ID     uint `gorm:"primaryKey"`
	PostID uint `gorm:"not null;uniqueIndex:idx_post_tag"`
	TagID  uint `gorm:"not null;index;uniqueIndex:idx_post_tag"`
}

// NewsMute hides a post from one viewer's news.
type NewsMute struct {
	UserID    uint `gorm:"primaryKey"`
	PostID    uint `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}
