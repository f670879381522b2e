package models

import "time"

// Like represents a like on a post
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_like_user_post"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_like_user_post"`
	CreatedAt time.Time `json:"created_at"`
}
