package contract

import (
	"context"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// IContentCache caches the public news and gallery listings.
type IContentCache interface {
	GetNewsList(ctx context.Context) ([]*entity.NewsPost, bool, error)
	SetNewsList(ctx context.Context, posts []*entity.NewsPost) error
	InvalidateNews(ctx context.Context) error

	GetGalleryList(ctx context.Context) ([]*entity.GalleryImage, bool, error)
	SetGalleryList(ctx context.Context, images []*entity.GalleryImage) error
	InvalidateGallery(ctx context.Context) error
}
