package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatePoller_ConsistentWithNews(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	viewer := env.account(t, "viewer")
	friend := env.account(t, "friend")
	stranger := env.account(t, "stranger")
	require.NoError(t, env.graph.Follow(ctx, viewer.ID, "friend"))

	seen := env.post(t, friend.ID, "already seen")
	p1 := env.post(t, friend.ID, "new one")
	env.post(t, stranger.ID, "not followed")
	p2 := env.post(t, viewer.ID, "my own")
	p3 := env.post(t, friend.ID, "muted")
	_, err := env.feed.DeleteNewsPost(ctx, viewer.ID, p3.ID)
	require.NoError(t, err)

	updates, err := env.updates.GetUpdates(ctx, viewer.ID, seen.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{p1.ID, p2.ID}, postIDs(updates))

	count, err := env.updates.CountUpdates(ctx, viewer.ID, seen.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len(updates)), count)

	news, err := env.feed.GetNews(ctx, viewer.ID, 0)
	require.NoError(t, err)
	inNews := map[uint]bool{}
	for _, p := range news {
		inNews[p.ID] = true
	}
	for _, p := range updates {
		assert.True(t, inNews[p.ID], "update %d missing from news", p.ID)
	}
	for _, p := range news {
		if p.ID > seen.ID {
			assert.Contains(t, postIDs(updates), p.ID)
		}
	}
}

func TestUpdatePoller_DrainsPastLimit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	viewer := env.account(t, "viewer")

	total := UpdatesLimit + 15
	for i := 0; i < total; i++ {
		env.post(t, viewer.ID, "burst")
	}

	count, err := env.updates.CountUpdates(ctx, viewer.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(total), count)

	first, err := env.updates.GetUpdates(ctx, viewer.ID, 0)
	require.NoError(t, err)
	require.Len(t, first, UpdatesLimit)

	watermark := first[len(first)-1].ID
	rest, err := env.updates.GetUpdates(ctx, viewer.ID, watermark)
	require.NoError(t, err)
	require.Len(t, rest, total-UpdatesLimit)
	assert.Greater(t, rest[0].ID, watermark)

	count, err = env.updates.CountUpdates(ctx, viewer.ID, rest[len(rest)-1].ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
