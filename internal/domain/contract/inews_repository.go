package contract

import (
	"context"
	"time"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// INewsRepository provides methods for managing news posts.
type INewsRepository interface {
	CreatePost(ctx context.Context, post *entity.NewsPost) error
	GetPostByID(ctx context.Context, id string) (*entity.NewsPost, error)
	// ListPosts returns all posts ordered by date, newest first.
	ListPosts(ctx context.Context) ([]*entity.NewsPost, error)
	DeletePost(ctx context.Context, id string) error
	CountPosts(ctx context.Context) (int64, error)
	CountPostsCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
