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

type SubscriptionRepository struct {
	collection *mongo.Collection
}

var _ contract.ISubscriptionRepository = (*SubscriptionRepository)(nil)

func NewSubscriptionRepository(collection *mongo.Collection) *SubscriptionRepository {
	return &SubscriptionRepository{collection: collection}
}

func (r *SubscriptionRepository) CreateSubscription(ctx context.Context, sub *entity.Subscription) error {
	_, err := r.collection.InsertOne(ctx, sub)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return entity.ErrDuplicate
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if result.DeletedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return true, nil
}

func (r *SubscriptionRepository) CountSubscriptions(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
