// Package repositories holds the storage collaborators behind the services.
// Lookups of a single row return (nil, nil) when the row does not exist.
package repositories

import "errors"

// ErrDuplicate is returned when an insert collides with a unique key.
var ErrDuplicate = errors.New("duplicate record")

// NewsFilter selects the posts that make up one viewer's news: posts by
// AuthorIDs that ViewerID has not muted.
type NewsFilter struct {
	ViewerID  uint
	AuthorIDs []uint
}

var (
	_ AccountRepository = (*GormAccountRepository)(nil)
	_ FollowRepository  = (*GormFollowRepository)(nil)
	_ PostRepository    = (*GormPostRepository)(nil)
	_ PostRepository    = (*MongoPostRepository)(nil)
	_ CommentRepository = (*GormCommentRepository)(nil)
	_ LikeRepository    = (*GormLikeRepository)(nil)
	_ Transactor        = (*GormTransactor)(nil)
)
