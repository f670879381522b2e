package services

import (
	"context"

	"github.com/anonto42/collab/backend/internal/annotate"
	"github.com/anonto42/collab/backend/internal/identity"
	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/repositories"
)

// Assembler turns store rows into view models. It keeps no state of its
// own; every decoration is recomputed from the repositories on each call,
// with one batched query per decoration and page.
type Assembler struct {
	accounts     repositories.AccountRepository
	follows      repositories.FollowRepository
	likes        repositories.LikeRepository
	comments     repositories.CommentRepository
	avatarServer string
	avatarSize   int
}

func NewAssembler(
	accounts repositories.AccountRepository,
	follows repositories.FollowRepository,
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
	avatarServer string,
	avatarSize int,
) *Assembler {
	return &Assembler{
		accounts:     accounts,
		follows:      follows,
		likes:        likes,
		comments:     comments,
		avatarServer: avatarServer,
		avatarSize:   avatarSize,
	}
}

// AvatarURL returns the avatar location for a picture id.
func (a *Assembler) AvatarURL(pictureID string) string {
	return identity.AvatarURL(a.avatarServer, pictureID, a.avatarSize)
}

func (a *Assembler) author(account models.Account) Author {
	return Author{
		ID:         account.ID,
		Account:    account.Handle,
		Name:       account.Name,
		PictureURL: a.AvatarURL(account.PictureID),
	}
}

// Posts decorates posts for viewerID.
func (a *Assembler) Posts(ctx context.Context, viewerID uint, posts []models.Post) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := make([]uint, 0, len(posts))
	authorIDs := make([]uint, 0, len(posts))
	seen := make(map[uint]bool)
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}

	authors, err := a.accounts.GetAccountsByIDs(ctx, authorIDs)
	if err != nil {
		return nil, storageError("load post authors", err)
	}
	authorMap := make(map[uint]Author, len(authors))
	for _, acc := range authors {
		authorMap[acc.ID] = a.author(acc)
	}

	likeCounts, err := a.likes.CountByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, storageError("count likes", err)
	}
	likedMap, err := a.likes.LikedPostIDs(ctx, viewerID, postIDs)
	if err != nil {
		return nil, storageError("load viewer likes", err)
	}
	commentCounts, err := a.comments.CountByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, storageError("count comments", err)
	}

	for _, p := range posts {
		mentions := p.Mentions
		if mentions == nil {
			mentions = []string{}
		}
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		views = append(views, PostView{
			ID:           p.ID,
			Content:      p.Content,
			Readonly:     p.Readonly,
			CreatedAt:    p.CreatedAt,
			Author:       authorMap[p.AuthorID],
			Mentions:     mentions,
			Tags:         tags,
			MentionsText: annotate.Join(mentions, ","),
			TagsText:     annotate.Join(tags, ","),
			Likes:        likeCounts[p.ID],
			Comments:     commentCounts[p.ID],
			IsLiked:      likedMap[p.ID],
			IsOwnPost:    p.AuthorID == viewerID,
		})
	}
	return views, nil
}

// Profiles decorates accounts relative to callerID.
func (a *Assembler) Profiles(ctx context.Context, callerID uint, accounts []models.Account) ([]Profile, error) {
	profiles := make([]Profile, 0, len(accounts))
	if len(accounts) == 0 {
		return profiles, nil
	}
	ids := make([]uint, len(accounts))
	for i, acc := range accounts {
		ids[i] = acc.ID
	}
	followed, err := a.follows.FollowedAmong(ctx, callerID, ids)
	if err != nil {
		return nil, storageError("load follow state", err)
	}
	for _, acc := range accounts {
		profiles = append(profiles, a.Profile(acc, callerID, followed[acc.ID]))
	}
	return profiles, nil
}

// Profile decorates a single account whose follow state is already known.
func (a *Assembler) Profile(account models.Account, callerID uint, followed bool) Profile {
	return Profile{
		ID:           account.ID,
		Account:      account.Handle,
		Name:         account.Name,
		Location:     account.Location,
		Website:      account.Website,
		Bio:          account.Bio,
		PictureURL:   a.AvatarURL(account.PictureID),
		CreatedAt:    account.CreatedAt,
		IsOwnProfile: account.ID == callerID,
		IsFollowed:   followed,
	}
}

// Comments attaches authors to comments.
func (a *Assembler) Comments(ctx context.Context, comments []models.Comment) ([]CommentView, error) {
	views := make([]CommentView, 0, len(comments))
	if len(comments) == 0 {
		return views, nil
	}
	var authorIDs []uint
	seen := make(map[uint]bool)
	for _, c := range comments {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			authorIDs = append(authorIDs, c.AuthorID)
		}
	}
	authors, err := a.accounts.GetAccountsByIDs(ctx, authorIDs)
	if err != nil {
		return nil, storageError("load comment authors", err)
	}
	authorMap := make(map[uint]Author, len(authors))
	for _, acc := range authors {
		authorMap[acc.ID] = a.author(acc)
	}
	for _, c := range comments {
		views = append(views, CommentView{
			ID:        c.ID,
			PostID:    c.PostID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			Author:    authorMap[c.AuthorID],
		})
	}
	return views, nil
}
