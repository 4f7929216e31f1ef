package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	UsersCollection         = "users"
	AdminsCollection        = "admins"
	NewsCollection          = "news_posts"
	GalleryCollection       = "gallery_images"
	SubscriptionsCollection = "subscriptions"
	ChatCollection          = "chat_conversations"
)

// MongoDBClient wraps a connected mongo client.
type MongoDBClient struct {
	Client *mongo.Client
}

// NewMongoDBClient connects and pings the server.
func NewMongoDBClient(uri string) (*MongoDBClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return &MongoDBClient{Client: client}, nil
}

// Disconnect closes the connection pool.
func (m *MongoDBClient) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on for uniqueness
// and expiry. It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database, chatTTL time.Duration) error {
	accountIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "external_id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	}
	for _, name := range []string{UsersCollection, AdminsCollection} {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, accountIndexes); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}

	if _, err := db.Collection(SubscriptionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create subscription index: %w", err)
	}

	if _, err := db.Collection(NewsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("create news indexes: %w", err)
	}

	if _, err := db.Collection(GalleryCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}); err != nil {
		return fmt.Errorf("create gallery index: %w", err)
	}

	if chatTTL > 0 {
		if _, err := db.Collection(ChatCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(chatTTL.Seconds())),
		}); err != nil {
			return fmt.Errorf("create chat ttl index: %w", err)
		}
	}
	return nil
}
