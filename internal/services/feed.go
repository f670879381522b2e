package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anonto42/collab/backend/internal/annotate"
	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/repositories"
)

// FeedService owns posts, walls, news and the comments and likes under them.
type FeedService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	likes    repositories.LikeRepository
	graph    *GraphService
	tx       repositories.Transactor
	clock    Clock
	logger   *slog.Logger
}

func NewFeedService(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	likes repositories.LikeRepository,
	graph *GraphService,
	tx repositories.Transactor,
	clock Clock,
	logger *slog.Logger,
) *FeedService {
	return &FeedService{
		posts:    posts,
		comments: comments,
		likes:    likes,
		graph:    graph,
		tx:       tx,
		clock:    clock,
		logger:   logger,
	}
}

// CreatePost stores a post together with the canonical mentions and tags
// found in its content. A zero createdAt means now.
func (s *FeedService) CreatePost(ctx context.Context, authorID uint, content string, createdAt time.Time) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationError("post content is required")
	}
	if utf8.RuneCountInString(content) > maxPostLength {
		return nil, validationError("post content exceeds %d characters", maxPostLength)
	}
	if createdAt.IsZero() {
		createdAt = s.clock.Now()
	}

	found := annotate.Parse(content)
	post := &models.Post{
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: createdAt,
		Mentions:  annotate.CanonicalSet(found.Mentions),
		Tags:      annotate.CanonicalSet(found.Tags),
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, storageError("create post", err)
	}
	s.logger.Info("post created", "post_id", post.ID, "author_id", authorID,
		"mentions", len(post.Mentions), "tags", len(post.Tags))
	return post, nil
}

// GetPost returns a single post.
func (s *FeedService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, storageError("get post", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// GetWall returns posts authored by handle, newest first.
func (s *FeedService) GetWall(ctx context.Context, handle string, topID uint) ([]models.Post, error) {
	account, err := s.graph.resolve(ctx, handle)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.GetPostsByAuthor(ctx, account.ID, topID, PageSize)
	if err != nil {
		return nil, storageError("get wall", err)
	}
	return posts, nil
}

// GetNews returns viewerID's news, newest first.
func (s *FeedService) GetNews(ctx context.Context, viewerID, topID uint) ([]models.Post, error) {
	filter, err := s.graph.NewsFilter(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.GetNews(ctx, filter, topID, PageSize)
	if err != nil {
		return nil, storageError("get news", err)
	}
	return posts, nil
}

// DeleteNewsPost mutes a post for viewerID only. It returns false when the
// post is not part of the viewer's news.
func (s *FeedService) DeleteNewsPost(ctx context.Context, viewerID, postID uint) (bool, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return false, storageError("get post", err)
	}
	if post == nil {
		return false, nil
	}
	filter, err := s.graph.NewsFilter(ctx, viewerID)
	if err != nil {
		return false, err
	}
	if !inNews(filter, post.AuthorID) {
		return false, nil
	}
	muted, err := s.posts.MutePost(ctx, viewerID, postID)
	if err != nil {
		return false, storageError("mute post", err)
	}
	return muted, nil
}

// owned loads a post and checks that callerID wrote it.
func (s *FeedService) owned(ctx context.Context, callerID, postID uint) (*models.Post, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != callerID {
		return nil, ErrNotOwner
	}
	return post, nil
}

// DeleteWallPost removes the post everywhere along with its comments and
// likes. The children go first so a failed attempt can be retried.
func (s *FeedService) DeleteWallPost(ctx context.Context, authorID, postID uint) error {
	err := inTransaction(ctx, s.tx, "delete post", func(ctx context.Context) error {
		if _, err := s.owned(ctx, authorID, postID); err != nil {
			return err
		}
		ids := []uint{postID}
		if err := s.comments.DeleteByPostIDs(ctx, ids); err != nil {
			return storageError("delete comments", err)
		}
		if err := s.likes.DeleteByPostIDs(ctx, ids); err != nil {
			return storageError("delete likes", err)
		}
		deleted, err := s.posts.DeletePost(ctx, postID)
		if err != nil {
			return storageError("delete post", err)
		}
		if !deleted {
			return ErrPostNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("post deleted", "post_id", postID, "author_id", authorID)
	return nil
}

func (s *FeedService) LockPost(ctx context.Context, ownerID, postID uint) error {
	return s.setReadonly(ctx, ownerID, postID, true)
}

func (s *FeedService) UnlockPost(ctx context.Context, ownerID, postID uint) error {
	return s.setReadonly(ctx, ownerID, postID, false)
}

func (s *FeedService) setReadonly(ctx context.Context, ownerID, postID uint, readonly bool) error {
	post, err := s.owned(ctx, ownerID, postID)
	if err != nil {
		return err
	}
	if post.Readonly == readonly {
		return nil
	}
	if err := s.posts.SetReadonly(ctx, postID, readonly); err != nil {
		return storageError("set readonly", err)
	}
	return nil
}

// writable loads a post that accepts comments and likes.
func (s *FeedService) writable(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Readonly {
		return nil, ErrPostLocked
	}
	return post, nil
}

// AddComment appends a comment to an unlocked post. A zero createdAt means now.
func (s *FeedService) AddComment(ctx context.Context, authorID, postID uint, content string, createdAt time.Time) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationError("comment content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, validationError("comment content exceeds %d characters", maxCommentLength)
	}
	if _, err := s.writable(ctx, postID); err != nil {
		return nil, err
	}
	if createdAt.IsZero() {
		createdAt = s.clock.Now()
	}
	comment := &models.Comment{
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: createdAt,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, storageError("create comment", err)
	}
	return comment, nil
}

// GetComments returns the comments of a post, oldest first.
func (s *FeedService) GetComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, storageError("get comments", err)
	}
	return comments, nil
}

// AddLike records that userID likes the post.
func (s *FeedService) AddLike(ctx context.Context, userID, postID uint) error {
	if _, err := s.writable(ctx, postID); err != nil {
		return err
	}
	liked, err := s.likes.HasUserLikedPost(ctx, postID, userID)
	if err != nil {
		return storageError("check like", err)
	}
	if liked {
		return ErrAlreadyLiked
	}
	if err := s.likes.CreateLike(ctx, &models.Like{PostID: postID, UserID: userID, CreatedAt: s.clock.Now()}); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrAlreadyLiked
		}
		return storageError("create like", err)
	}
	return nil
}

// RemoveLike withdraws a like; removing a missing like is a no-op.
func (s *FeedService) RemoveLike(ctx context.Context, userID, postID uint) error {
	if _, err := s.writable(ctx, postID); err != nil {
		return err
	}
	if err := s.likes.DeleteLike(ctx, postID, userID); err != nil {
		return storageError("delete like", err)
	}
	return nil
}

// GetPostsByHashTag returns posts carrying tag, newest first. A leading
// '#' is ignored.
func (s *FeedService) GetPostsByHashTag(ctx context.Context, tag string, topID uint) ([]models.Post, error) {
	tag = annotate.Canonical(strings.TrimLeft(strings.TrimSpace(tag), "#"))
	if tag == "" {
		return nil, validationError("tag is required")
	}
	posts, err := s.posts.GetPostsByTag(ctx, tag, topID, PageSize)
	if err != nil {
		return nil, storageError("get posts by tag", err)
	}
	return posts, nil
}

// GetMentions returns posts mentioning handle, newest first.
func (s *FeedService) GetMentions(ctx context.Context, handle string, topID uint) ([]models.Post, error) {
	handle = annotate.Canonical(strings.TrimLeft(handle, "@"))
	if handle == "" {
		return nil, validationError("account is required")
	}
	posts, err := s.posts.GetPostsByMention(ctx, handle, topID, PageSize)
	if err != nil {
		return nil, storageError("get mentions", err)
	}
	return posts, nil
}
