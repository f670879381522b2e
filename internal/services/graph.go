package services

import (
	"context"
	"log/slog"

	"github.com/anonto42/collab/backend/internal/annotate"
	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/repositories"
)

// GraphService owns follow edges and the queries built on them.
type GraphService struct {
	accounts  repositories.AccountRepository
	follows   repositories.FollowRepository
	posts     repositories.PostRepository
	assembler *Assembler
	logger    *slog.Logger
}

func NewGraphService(
	accounts repositories.AccountRepository,
	follows repositories.FollowRepository,
	posts repositories.PostRepository,
	assembler *Assembler,
	logger *slog.Logger,
) *GraphService {
	return &GraphService{
		accounts:  accounts,
		follows:   follows,
		posts:     posts,
		assembler: assembler,
		logger:    logger,
	}
}

// resolve finds an account by handle, ignoring case.
func (s *GraphService) resolve(ctx context.Context, handle string) (*models.Account, error) {
	account, err := s.accounts.GetAccountByHandle(ctx, annotate.Canonical(handle))
	if err != nil {
		return nil, storageError("resolve account", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// Follow makes callerID follow target. Following twice is a no-op.
func (s *GraphService) Follow(ctx context.Context, callerID uint, target string) error {
	account, err := s.resolve(ctx, target)
	if err != nil {
		return err
	}
	if account.ID == callerID {
		return ErrSelfFollow
	}
	if err := s.follows.CreateFollow(ctx, callerID, account.ID); err != nil {
		return storageError("follow", err)
	}
	s.logger.Debug("follow", "follower_id", callerID, "following_id", account.ID)
	return nil
}

// Unfollow removes the edge; a missing edge is not an error.
func (s *GraphService) Unfollow(ctx context.Context, callerID uint, target string) error {
	account, err := s.resolve(ctx, target)
	if err != nil {
		return err
	}
	if err := s.follows.DeleteFollow(ctx, callerID, account.ID); err != nil {
		return storageError("unfollow", err)
	}
	return nil
}

// GetFollowers lists accounts following target, newest account first.
func (s *GraphService) GetFollowers(ctx context.Context, callerID uint, target string, topID uint) ([]Profile, error) {
	account, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	accounts, err := s.follows.GetFollowers(ctx, account.ID, topID, PageSize)
	if err != nil {
		return nil, storageError("list followers", err)
	}
	return s.assembler.Profiles(ctx, callerID, accounts)
}

// GetFollowing lists accounts target follows, newest account first.
func (s *GraphService) GetFollowing(ctx context.Context, callerID uint, target string, topID uint) ([]Profile, error) {
	account, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	accounts, err := s.follows.GetFollowing(ctx, account.ID, topID, PageSize)
	if err != nil {
		return nil, storageError("list following", err)
	}
	return s.assembler.Profiles(ctx, callerID, accounts)
}

// GetPeople pages through the account directory.
func (s *GraphService) GetPeople(ctx context.Context, callerID, topID uint) ([]Profile, error) {
	accounts, err := s.accounts.ListAccounts(ctx, topID, PageSize)
	if err != nil {
		return nil, storageError("list people", err)
	}
	return s.assembler.Profiles(ctx, callerID, accounts)
}

// GetPublicProfile returns target decorated for callerID, with counts.
func (s *GraphService) GetPublicProfile(ctx context.Context, callerID uint, target string) (*Profile, error) {
	account, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	followed, err := s.follows.IsFollowing(ctx, callerID, account.ID)
	if err != nil {
		return nil, storageError("load follow state", err)
	}
	stats := &ProfileStats{}
	if stats.Posts, err = s.posts.CountPostsByAuthor(ctx, account.ID); err != nil {
		return nil, storageError("count posts", err)
	}
	if stats.Followers, err = s.follows.GetFollowersCount(ctx, account.ID); err != nil {
		return nil, storageError("count followers", err)
	}
	if stats.Following, err = s.follows.GetFollowingCount(ctx, account.ID); err != nil {
		return nil, storageError("count following", err)
	}

	profile := s.assembler.Profile(*account, callerID, followed)
	profile.Stats = stats
	return &profile, nil
}

// ListFollowedIDs returns the ids userID follows.
func (s *GraphService) ListFollowedIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := s.follows.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, storageError("list followed ids", err)
	}
	return ids, nil
}

// NewsFilter describes viewerID's news: followed accounts plus the viewer.
func (s *GraphService) NewsFilter(ctx context.Context, viewerID uint) (repositories.NewsFilter, error) {
	ids, err := s.ListFollowedIDs(ctx, viewerID)
	if err != nil {
		return repositories.NewsFilter{}, err
	}
	return repositories.NewsFilter{
		ViewerID:  viewerID,
		AuthorIDs: append(ids, viewerID),
	}, nil
}

// inNews reports whether authorID's posts appear in filter's news.
func inNews(filter repositories.NewsFilter, authorID uint) bool {
	for _, id := range filter.AuthorIDs {
		if id == authorID {
			return true
		}
	}
	return false
}
