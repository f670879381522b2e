package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/repositories"
	"github.com/anonto42/collab/backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	repos     *testutil.Repositories
	clock     *testutil.StubClock
	assembler *Assembler
	graph     *GraphService
	feed      *FeedService
	updates   *UpdatePoller
	accounts  *AccountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := testutil.NewRepositories(t)
	clock := testutil.FixedClock()
	logger := testutil.DiscardLogger()

	assembler := NewAssembler(repos.Accounts, repos.Follows, repos.Likes, repos.Comments, "http://avatars.test", 0)
	graph := NewGraphService(repos.Accounts, repos.Follows, repos.Posts, assembler, logger)
	return &testEnv{
		repos:     repos,
		clock:     clock,
		assembler: assembler,
		graph:     graph,
		feed:      NewFeedService(repos.Posts, repos.Comments, repos.Likes, graph, repos.Tx, clock, logger),
		updates:   NewUpdatePoller(repos.Posts, graph),
		accounts:  NewAccountService(repos.Accounts, repos.Posts, repos.Comments, repos.Likes, repos.Tx, clock, logger),
	}
}

func (e *testEnv) account(t *testing.T, handle string) *models.Account {
	t.Helper()
	return testutil.CreateAccount(t, e.repos.Accounts, handle)
}

func (e *testEnv) post(t *testing.T, authorID uint, content string) *models.Post {
	t.Helper()
	post, err := e.feed.CreatePost(context.Background(), authorID, content, e.clock.Now())
	require.NoError(t, err)
	return post
}

func postIDs(posts []models.Post) []uint {
	out := make([]uint, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

var errInjected = errors.New("injected failure")

// failingComments fails DeleteByPostIDs while fail is set.
type failingComments struct {
	repositories.CommentRepository
	fail bool
}

func (f *failingComments) DeleteByPostIDs(ctx context.Context, postIDs []uint) error {
	if f.fail {
		return errInjected
	}
	return f.CommentRepository.DeleteByPostIDs(ctx, postIDs)
}

// failingLikes fails DeleteByPostIDs while fail is set.
type failingLikes struct {
	repositories.LikeRepository
	fail bool
}

func (f *failingLikes) DeleteByPostIDs(ctx context.Context, postIDs []uint) error {
	if f.fail {
		return errInjected
	}
	return f.LikeRepository.DeleteByPostIDs(ctx, postIDs)
}
