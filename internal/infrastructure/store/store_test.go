package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *ContentCacheStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewContentCacheStore(rdb, time.Minute)
}

func TestNewsList_MissSetHitInvalidate(t *testing.T) {
	_, c := newTestStore(t)
	ctx := context.Background()

	_, found, err := c.GetNewsList(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	posts := []*entity.NewsPost{{ID: "n1", Title: "Peace walk"}}
	require.NoError(t, c.SetNewsList(ctx, posts))

	got, found, err := c.GetNewsList(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 1)
	assert.Equal(t, "Peace walk", got[0].Title)

	require.NoError(t, c.InvalidateNews(ctx))
	_, found, err = c.GetNewsList(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGalleryList_Expires(t *testing.T) {
	mr, c := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, c.SetGalleryList(ctx, []*entity.GalleryImage{{ID: "g1"}}))
	mr.FastForward(2 * time.Minute)

	_, found, err := c.GetGalleryList(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetNewsList_CorruptEntryIsMiss(t *testing.T) {
	mr, c := newTestStore(t)
	require.NoError(t, mr.Set(newsListKey, "{not json"))

	_, found, err := c.GetNewsList(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists(newsListKey))
}

func TestGetNewsList_RedisDown(t *testing.T) {
	mr, c := newTestStore(t)
	mr.Close()

	_, found, err := c.GetNewsList(context.Background())
	assert.Error(t, err)
	assert.False(t, found)
}
