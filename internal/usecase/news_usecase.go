package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/metrics"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

const (
	newsImageFolder = "news"
	errPostNotFound = "News post not found."
)

// NewsUseCase manages news posts. Listing reads through the optional content cache.
type NewsUseCase struct {
	repo    contract.INewsRepository
	storage contract.IObjectStorage
	uuidGen contract.IUUIDGenerator
	logger  usecasecontract.IAppLogger
	cache   contract.IContentCache
	now     func() time.Time
}

var _ usecasecontract.INewsUseCase = (*NewsUseCase)(nil)

func NewNewsUseCase(repo contract.INewsRepository, storage contract.IObjectStorage, uuidGen contract.IUUIDGenerator, logger usecasecontract.IAppLogger) *NewsUseCase {
	return &NewsUseCase{repo: repo, storage: storage, uuidGen: uuidGen, logger: logger, now: time.Now}
}

// SetContentCache enables list caching.
func (uc *NewsUseCase) SetContentCache(cache contract.IContentCache) {
	uc.cache = cache
}

func (uc *NewsUseCase) CreatePost(ctx context.Context, title, content string, date time.Time, image *entity.Upload) (*entity.NewsPost, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" || date.IsZero() {
		return nil, entity.NewValidationError("Title, content, and date are required.")
	}

	now := uc.now()
	post := &entity.NewsPost{
		ID:        uc.uuidGen.NewUUID(),
		Title:     title,
		Content:   content,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if image != nil && len(image.Data) > 0 {
		if uc.storage == nil {
			return nil, entity.NewUpstreamError(msgUploadsUnavailable, nil)
		}
		obj, err := uc.storage.Upload(ctx, newsImageFolder, *image)
		if err != nil {
			uc.logger.Errorf("failed to upload news image: %v", err)
			return nil, entity.NewUpstreamError("Server error while uploading image.", err)
		}
		post.ImageURL = obj.URL
		post.ImageKey = obj.Key
	}

	if err := uc.repo.CreatePost(ctx, post); err != nil {
		uc.removeObject(ctx, post.ImageKey)
		uc.logger.Errorf("failed to create news post: %v", err)
		return nil, entity.NewUpstreamError("Server error while creating post.", err)
	}
	uc.invalidate(ctx)
	return post, nil
}

func (uc *NewsUseCase) ListPosts(ctx context.Context) ([]*entity.NewsPost, error) {
	if uc.cache != nil {
		t0 := time.Now()
		cached, found, err := uc.cache.GetNewsList(ctx)
		elapsed := time.Since(t0)
		switch {
		case err == nil && found:
			metrics.IncListHit(metrics.ListingNews)
			metrics.AddHitDuration(elapsed.Seconds())
			uc.logger.Debugf("cache hit: news list took=%s", elapsed)
			return cached, nil
		case err == nil:
			metrics.IncListMiss(metrics.ListingNews)
			metrics.AddMissDuration(elapsed.Seconds())
		default:
			uc.logger.Warnf("cache error: news list err=%v took=%s", err, elapsed)
		}
	}

	posts, err := uc.repo.ListPosts(ctx)
	if err != nil {
		uc.logger.Errorf("failed to list news: %v", err)
		return nil, entity.NewUpstreamError("Failed to fetch news.", err)
	}
	if posts == nil {
		posts = []*entity.NewsPost{}
	}

	if uc.cache != nil {
		if err := uc.cache.SetNewsList(ctx, posts); err != nil {
			uc.logger.Warnf("cache set failed: news list err=%v", err)
		}
	}
	return posts, nil
}

func (uc *NewsUseCase) GetPost(ctx context.Context, id string) (*entity.NewsPost, error) {
	post, err := uc.repo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.NewNotFoundError(errPostNotFound)
		}
		return nil, entity.NewUpstreamError("Failed to fetch news post.", err)
	}
	return post, nil
}

// DeletePost removes the post and then its stored image.
func (uc *NewsUseCase) DeletePost(ctx context.Context, id string) error {
	post, err := uc.repo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.NewNotFoundError(errPostNotFound)
		}
		return entity.NewUpstreamError("Failed to delete news post.", err)
	}
	if err := uc.repo.DeletePost(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.NewNotFoundError(errPostNotFound)
		}
		uc.logger.Errorf("failed to delete news post %s: %v", id, err)
		return entity.NewUpstreamError("Failed to delete news post.", err)
	}
	uc.removeObject(ctx, post.ImageKey)
	uc.invalidate(ctx)
	return nil
}

func (uc *NewsUseCase) removeObject(ctx context.Context, key string) {
	if key == "" || uc.storage == nil {
		return
	}
	if err := uc.storage.Delete(ctx, key); err != nil {
		uc.logger.Warnf("failed to delete stored object %s: %v", key, err)
	}
}

func (uc *NewsUseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateNews(ctx); err != nil {
		uc.logger.Warnf("cache invalidate failed: news list err=%v", err)
	}
}
