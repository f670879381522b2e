package repositories_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/collab/backend/internal/models"
	"github.com/anonto42/collab/backend/internal/repositories"
	"github.com/anonto42/collab/backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

func createPost(t *testing.T, repo repositories.PostRepository, authorID uint, content string, mentions, tags []string) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		Mentions:  mentions,
		Tags:      tags,
	}
	require.NoError(t, repo.CreatePost(context.Background(), post))
	require.NotZero(t, post.ID)
	return post
}

func ids(posts []models.Post) []uint {
	out := make([]uint, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestGormPostRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)
	author := testutil.CreateAccount(t, repos.Accounts, "author")

	post := createPost(t, repos.Posts, author.ID, "hi @bob @amy #go #db", []string{"bob", "amy"}, []string{"go", "db"})
	createPost(t, repos.Posts, author.ID, "again #go", nil, []string{"go"})

	got, err := repos.Posts.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "hi @bob @amy #go #db", got.Content)
	require.Equal(t, []string{"bob", "amy"}, got.Mentions)
	require.Equal(t, []string{"go", "db"}, got.Tags)

	var tagCount int64
	require.NoError(t, repos.DB.Model(&models.HashTag{}).Count(&tagCount).Error)
	require.Equal(t, int64(2), tagCount)

	missing, err := repos.Posts.GetPostByID(ctx, post.ID+100)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestGormPostRepository_GetPostsByAuthorPages(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)
	author := testutil.CreateAccount(t, repos.Accounts, "writer")
	other := testutil.CreateAccount(t, repos.Accounts, "other")

	var all []uint
	for i := 0; i < 45; i++ {
		p := createPost(t, repos.Posts, author.ID, testutil.Paragraph(), nil, nil)
		all = append([]uint{p.ID}, all...)
		createPost(t, repos.Posts, other.ID, testutil.Paragraph(), nil, nil)
	}

	var seen []uint
	var topID uint
	for {
		page, err := repos.Posts.GetPostsByAuthor(ctx, author.ID, topID, 20)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		require.LessOrEqual(t, len(page), 20)
		seen = append(seen, ids(page)...)
		topID = page[len(page)-1].ID
	}
	require.Equal(t, all, seen)
}

func TestGormPostRepository_TagsAndMentions(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)
	author := testutil.CreateAccount(t, repos.Accounts, "tagger")

	first := createPost(t, repos.Posts, author.ID, "#go", nil, []string{"go"})
	createPost(t, repos.Posts, author.ID, "#rust", nil, []string{"rust"})
	third := createPost(t, repos.Posts, author.ID, "#go @ann", []string{"ann"}, []string{"go"})

	tagged, err := repos.Posts.GetPostsByTag(ctx, "go", 0, 20)
	require.NoError(t, err)
	require.Equal(t, []uint{third.ID, first.ID}, ids(tagged))

	older, err := repos.Posts.GetPostsByTag(ctx, "go", third.ID, 20)
	require.NoError(t, err)
	require.Equal(t, []uint{first.ID}, ids(older))

	mentioned, err := repos.Posts.GetPostsByMention(ctx, "ann", 0, 20)
	require.NoError(t, err)
	require.Equal(t, []uint{third.ID}, ids(mentioned))
}

func TestGormPostRepository_LongAnnotations(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)
	author := testutil.CreateAccount(t, repos.Accounts, "longtags")

	tag := strings.Repeat("t", 120)
	mention := strings.Repeat("m", 120)
	post := createPost(t, repos.Posts, author.ID, "#"+tag+" @"+mention, []string{mention}, []string{tag})

	got, err := repos.Posts.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, []string{mention}, got.Mentions)
	require.Equal(t, []string{tag}, got.Tags)

	tagged, err := repos.Posts.GetPostsByTag(ctx, tag, 0, 20)
	require.NoError(t, err)
	require.Equal(t, []uint{post.ID}, ids(tagged))

	mentioned, err := repos.Posts.GetPostsByMention(ctx, mention, 0, 20)
	require.NoError(t, err)
	require.Equal(t, []uint{post.ID}, ids(mentioned))
}

func TestGormPostRepository_NewsAndMutes(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)
	viewer := testutil.CreateAccount(t, repos.Accounts, "viewer")
	b := testutil.CreateAccount(t, repos.Accounts, "bee")
	c := testutil.CreateAccount(t, repos.Accounts, "cee")
	stranger := testutil.CreateAccount(t, repos.Accounts, "stranger")

	pb := createPost(t, repos.Posts, b.ID, "from b", nil, nil)
	createPost(t, repos.Posts, stranger.ID, "from stranger", nil, nil)
	pc := createPost(t, repos.Posts, c.ID, "from c", nil, nil)

	filter := repositories.NewsFilter{ViewerID: viewer.ID, AuthorIDs: []uint{b.ID, c.ID, viewer.ID}}
	news, err := repos.Posts.GetNews(ctx, filter, 0, 20)
	require.NoError(t, err)
	require.Equal(t, []uint{pc.ID, pb.ID}, ids(news))

	muted, err := repos.Posts.MutePost(ctx, viewer.ID, pb.ID)
	require.NoError(t, err)
	require.True(t, muted)
	muted, err = repos.Posts.MutePost(ctx, viewer.ID, pb.ID)
	require.NoError(t, err)
	require.False(t, muted)

	isMuted, err := repos.Posts.IsMuted(ctx, viewer.ID, pb.ID)
	require.NoError(t, err)
	require.True(t, isMuted)

	news, err = repos.Posts.GetNews(ctx, filter, 0, 20)
	require.NoError(t, err)
	require.Equal(t, []uint{pc.ID}, ids(news))

	wall, err := repos.Posts.GetPostsByAuthor(ctx, b.ID, 0, 20)
	require.NoError(t, err)
	require.Equal(t, []uint{pb.ID}, ids(wall))

	after, err := repos.Posts.GetNewsAfter(ctx, filter, 0, 100)
	require.NoError(t, err)
	require.Equal(t, []uint{pc.ID}, ids(after))
	count, err := repos.Posts.CountNewsAfter(ctx, filter, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestGormPostRepository_NewsAfterAscending(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)
	viewer := testutil.CreateAccount(t, repos.Accounts, "poller")

	var created []uint
	for i := 0; i < 5; i++ {
		created = append(created, createPost(t, repos.Posts, viewer.ID, testutil.Paragraph(), nil, nil).ID)
	}
	filter := repositories.NewsFilter{ViewerID: viewer.ID, AuthorIDs: []uint{viewer.ID}}

	after, err := repos.Posts.GetNewsAfter(ctx, filter, created[1], 2)
	require.NoError(t, err)
	require.Equal(t, []uint{created[2], created[3]}, ids(after))

	count, err := repos.Posts.CountNewsAfter(ctx, filter, created[1])
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}

func TestGormPostRepository_SetReadonly(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)
	author := testutil.CreateAccount(t, repos.Accounts, "locker")
	post := createPost(t, repos.Posts, author.ID, "lock me", nil, nil)

	require.NoError(t, repos.Posts.SetReadonly(ctx, post.ID, true))
	got, err := repos.Posts.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	require.True(t, got.Readonly)

	require.NoError(t, repos.Posts.SetReadonly(ctx, post.ID, false))
	got, err = repos.Posts.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	require.False(t, got.Readonly)
}

func TestGormPostRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)
	author := testutil.CreateAccount(t, repos.Accounts, "deleter")
	viewer := testutil.CreateAccount(t, repos.Accounts, "muter")
	post := createPost(t, repos.Posts, author.ID, "@muter #bye", []string{"muter"}, []string{"bye"})
	_, err := repos.Posts.MutePost(ctx, viewer.ID, post.ID)
	require.NoError(t, err)

	deleted, err := repos.Posts.DeletePost(ctx, post.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = repos.Posts.DeletePost(ctx, post.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	for _, model := range []interface{}{&models.Mention{}, &models.PostTag{}, &models.NewsMute{}} {
		var n int64
		require.NoError(t, repos.DB.Model(model).Count(&n).Error)
		require.Zero(t, n)
	}
}

func TestGormPostRepository_DeletePostsByAuthor(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepositories(t)
	author := testutil.CreateAccount(t, repos.Accounts, "leaving")
	other := testutil.CreateAccount(t, repos.Accounts, "staying")

	p1 := createPost(t, repos.Posts, author.ID, "one", nil, nil)
	p2 := createPost(t, repos.Posts, author.ID, "two", nil, nil)
	kept := createPost(t, repos.Posts, other.ID, "kept", nil, nil)
	_, err := repos.Posts.MutePost(ctx, author.ID, kept.ID)
	require.NoError(t, err)

	removed, err := repos.Posts.DeletePostsByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{p1.ID, p2.ID}, removed)

	count, err := repos.Posts.CountPostsByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	isMuted, err := repos.Posts.IsMuted(ctx, author.ID, kept.ID)
	require.NoError(t, err)
	require.False(t, isMuted)
}
