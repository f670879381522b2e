package services

import "time"

// Author is the public summary of an account attached to posts and comments.
type Author struct {
	ID         uint   `json:"id"`
	Account    string `json:"account"`
	Name       string `json:"name"`
	PictureURL string `json:"picture_url"`
}

// PostView is a post decorated for one viewer.
type PostView struct {
	ID           uint      `json:"id"`
	Content      string    `json:"content"`
	Readonly     bool      `json:"readonly"`
	CreatedAt    time.Time `json:"created_at"`
	Author       Author    `json:"author"`
	Mentions     []string  `json:"mentions"`
	Tags         []string  `json:"tags"`
	MentionsText string    `json:"mentions_text"`
	TagsText     string    `json:"tags_text"`
	Likes        int64     `json:"likes"`
	Comments     int64     `json:"comments"`
	IsLiked      bool      `json:"is_liked"`
	IsOwnPost    bool      `json:"is_own_post"`
}

// Profile is an account as seen by a caller.
type Profile struct {
	ID           uint          `json:"id"`
	Account      string        `json:"account"`
	Name         string        `json:"name"`
	Location     string        `json:"location"`
	Website      string        `json:"website"`
	Bio          string        `json:"bio"`
	PictureURL   string        `json:"picture_url"`
	CreatedAt    time.Time     `json:"created_at"`
	IsOwnProfile bool          `json:"is_own_profile"`
	IsFollowed   bool          `json:"is_followed"`
	Stats        *ProfileStats `json:"stats,omitempty"`
}

type ProfileStats struct {
	Posts     int64 `json:"posts"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

type CommentView struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"post_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    Author    `json:"author"`
}
