package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// GalleryRepository stores gallery images.
type GalleryRepository struct {
	collection *mongo.Collection
}

var _ contract.IGalleryRepository = (*GalleryRepository)(nil)

func NewGalleryRepository(collection *mongo.Collection) *GalleryRepository {
	return &GalleryRepository{collection: collection}
}

// CreateImages inserts all images in one unordered batch.
func (r *GalleryRepository) CreateImages(ctx context.Context, images []*entity.GalleryImage) error {
	if len(images) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(images))
	for _, img := range images {
		docs = append(docs, img)
	}
	if _, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to create gallery images: %w", err)
	}
	return nil
}

func (r *GalleryRepository) GetImageByID(ctx context.Context, id string) (*entity.GalleryImage, error) {
	var img entity.GalleryImage
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&img); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve gallery image %s: %w", id, err)
	}
	return &img, nil
}

func (r *GalleryRepository) ListImages(ctx context.Context) ([]*entity.GalleryImage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery images: %w", err)
	}
	defer cursor.Close(ctx)

	images := make([]*entity.GalleryImage, 0)
	if err := cursor.All(ctx, &images); err != nil {
		return nil, fmt.Errorf("failed to decode gallery images: %w", err)
	}
	return images, nil
}

func (r *GalleryRepository) DeleteImage(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete gallery image %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *GalleryRepository) CountImages(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
