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

// ChatRepository keeps a bounded message history per conversation.
type ChatRepository struct {
	collection *mongo.Collection
}

var _ contract.IChatRepository = (*ChatRepository)(nil)

func NewChatRepository(collection *mongo.Collection) *ChatRepository {
	return &ChatRepository{collection: collection}
}

func (r *ChatRepository) GetConversation(ctx context.Context, id string) (*entity.Conversation, error) {
	var conv entity.Conversation
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&conv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return &conv, nil
}

// AppendMessages pushes messages and trims the array to the newest limit entries.
func (r *ChatRepository) AppendMessages(ctx context.Context, id string, messages []entity.ChatMessage, limit int) error {
	if len(messages) == 0 {
		return nil
	}
	push := bson.M{"$each": messages}
	if limit > 0 {
		push["$slice"] = -limit
	}
	update := bson.M{
		"$push": bson.M{"messages": push},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to append chat messages: %w", err)
	}
	return nil
}
