package contract

import (
	"context"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// IGalleryRepository provides methods for managing gallery images.
type IGalleryRepository interface {
	CreateImages(ctx context.Context, images []*entity.GalleryImage) error
	GetImageByID(ctx context.Context, id string) (*entity.GalleryImage, error)
	// ListImages returns all images, newest first.
	ListImages(ctx context.Context) ([]*entity.GalleryImage, error)
	DeleteImage(ctx context.Context, id string) error
	CountImages(ctx context.Context) (int64, error)
}
