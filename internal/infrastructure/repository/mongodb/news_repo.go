package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// NewsRepository represents the MongoDB implementation of the INewsRepository interface.
type NewsRepository struct {
	collection *mongo.Collection
}

var _ contract.INewsRepository = (*NewsRepository)(nil)

// NewNewsRepository creates and returns a new NewsRepository instance.
func NewNewsRepository(collection *mongo.Collection) *NewsRepository {
	return &NewsRepository{collection: collection}
}

// CreatePost inserts a new news post.
func (r *NewsRepository) CreatePost(ctx context.Context, post *entity.NewsPost) error {
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to create news post: %w", err)
	}
	return nil
}

// GetPostByID retrieves a single post by its ID.
func (r *NewsRepository) GetPostByID(ctx context.Context, id string) (*entity.NewsPost, error) {
	var post entity.NewsPost
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve news post %s: %w", id, err)
	}
	return &post, nil
}

// ListPosts returns posts ordered by date, newest first.
func (r *NewsRepository) ListPosts(ctx context.Context) ([]*entity.NewsPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list news posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := make([]*entity.NewsPost, 0)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode news posts: %w", err)
	}
	return posts, nil
}

// DeletePost removes a post.
func (r *NewsRepository) DeletePost(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete news post %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *NewsRepository) CountPosts(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountPostsCreatedSince counts posts created at or after since.
func (r *NewsRepository) CountPostsCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}
