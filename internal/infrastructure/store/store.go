package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

const (
	newsListKey    = "content:news:list"
	galleryListKey = "content:gallery:list"
)

// ContentCacheStore caches the public listings in redis as JSON.
type ContentCacheStore struct {
	rdb     *redis.Client
	listTTL time.Duration
}

var _ contract.IContentCache = (*ContentCacheStore)(nil)

func NewContentCacheStore(rdb *redis.Client, listTTL time.Duration) *ContentCacheStore {
	if listTTL <= 0 {
		listTTL = 10 * time.Minute
	}
	return &ContentCacheStore{rdb: rdb, listTTL: listTTL}
}

func getJSON[T any](ctx context.Context, rdb *redis.Client, key string) (T, bool, error) {
	var out T
	b, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return out, false, nil
		}
		return out, false, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		// corrupt entry, treat as a miss
		_ = rdb.Del(ctx, key).Err()
		return out, false, nil
	}
	return out, true, nil
}

func (c *ContentCacheStore) setJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, c.listTTL).Err()
}

func (c *ContentCacheStore) GetNewsList(ctx context.Context) ([]*entity.NewsPost, bool, error) {
	return getJSON[[]*entity.NewsPost](ctx, c.rdb, newsListKey)
}

func (c *ContentCacheStore) SetNewsList(ctx context.Context, posts []*entity.NewsPost) error {
	return c.setJSON(ctx, newsListKey, posts)
}

func (c *ContentCacheStore) InvalidateNews(ctx context.Context) error {
	return c.rdb.Del(ctx, newsListKey).Err()
}

func (c *ContentCacheStore) GetGalleryList(ctx context.Context) ([]*entity.GalleryImage, bool, error) {
	return getJSON[[]*entity.GalleryImage](ctx, c.rdb, galleryListKey)
}

func (c *ContentCacheStore) SetGalleryList(ctx context.Context, images []*entity.GalleryImage) error {
	return c.setJSON(ctx, galleryListKey, images)
}

func (c *ContentCacheStore) InvalidateGallery(ctx context.Context) error {
	return c.rdb.Del(ctx, galleryListKey).Err()
}
