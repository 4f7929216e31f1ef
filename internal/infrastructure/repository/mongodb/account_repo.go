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

// upsertAttempts bounds retries when concurrent federated logins race on the
// unique indexes.
const upsertAttempts = 3

// MongoAccountRepository stores accounts of one role in one collection.
type MongoAccountRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

var _ contract.IAccountRepository = (*MongoAccountRepository)(nil)

func NewMongoAccountRepository(collection *mongo.Collection) *MongoAccountRepository {
	return &MongoAccountRepository{collection: collection, now: time.Now}
}

func (r *MongoAccountRepository) CreateAccount(ctx context.Context, account *entity.Account) error {
	_, err := r.collection.InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("account %s: %w", account.Email, entity.ErrDuplicate)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*entity.Account, error) {
	var account entity.Account
	err := r.collection.FindOne(ctx, filter).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	return &account, nil
}

func (r *MongoAccountRepository) GetAccountByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoAccountRepository) GetAccountByExternalID(ctx context.Context, externalID string) (*entity.Account, error) {
	if externalID == "" {
		return nil, entity.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"external_id": externalID})
}

// ListAccounts returns every account, newest first, without credential fields.
func (r *MongoAccountRepository) ListAccounts(ctx context.Context) ([]*entity.Account, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"password_hash": 0, "reset_otp_hash": 0, "reset_otp_expiry": 0})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer cursor.Close(ctx)

	accounts := make([]*entity.Account, 0)
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}
	return accounts, nil
}

func (r *MongoAccountRepository) CountAccounts(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return n, nil
}

// UpdateProfile updates an existing account and returns the updated account
func (r *MongoAccountRepository) UpdateProfile(ctx context.Context, id string, name, photoURL *string) (*entity.Account, error) {
	set := bson.M{"updated_at": r.now()}
	if name != nil {
		set["name"] = *name
	}
	if photoURL != nil {
		set["photo_url"] = *photoURL
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated entity.Account
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &updated, nil
}

// UpdatePassword swaps the hash only when the stored one still equals oldHash,
// so two finalizers holding the same reset session cannot both succeed.
func (r *MongoAccountRepository) UpdatePassword(ctx context.Context, id, oldHash, newHash string) error {
	filter := bson.M{"_id": id}
	if oldHash == "" {
		filter["password_hash"] = bson.M{"$exists": false}
	} else {
		filter["password_hash"] = oldHash
	}
	update := bson.M{"$set": bson.M{"password_hash": newHash, "updated_at": r.now()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *MongoAccountRepository) DeleteAccount(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if result.DeletedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *MongoAccountRepository) SetResetOTP(ctx context.Context, email, otpHash string, expiry time.Time) (*entity.Account, error) {
	update := bson.M{"$set": bson.M{
		"reset_otp_hash":   otpHash,
		"reset_otp_expiry": expiry,
		"updated_at":       r.now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var account entity.Account
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("failed to store reset code: %w", err)
	}
	return &account, nil
}

func (r *MongoAccountRepository) GetAccountWithActiveOTP(ctx context.Context, email string, now time.Time) (*entity.Account, error) {
	return r.findOne(ctx, bson.M{
		"email":            email,
		"reset_otp_hash":   bson.M{"$exists": true},
		"reset_otp_expiry": bson.M{"$gt": now},
	})
}

func (r *MongoAccountRepository) ClearResetOTP(ctx context.Context, id, otpHash string) error {
	filter := bson.M{"_id": id, "reset_otp_hash": otpHash}
	update := bson.M{
		"$unset": bson.M{"reset_otp_hash": "", "reset_otp_expiry": ""},
		"$set":   bson.M{"updated_at": r.now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to clear reset code: %w", err)
	}
	if result.ModifiedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// UpsertFederated matches the account by external id, or by email when
// linkByEmail is set, and overwrites its external id. Otherwise it inserts a
// new account. All of it is a single findAndModify.
func (r *MongoAccountRepository) UpsertFederated(ctx context.Context, externalID, email string, linkByEmail bool, profile entity.FederatedProfile, defaults *entity.Account) (*entity.Account, error) {
	if externalID == "" {
		return nil, fmt.Errorf("external id is required")
	}

	filter := bson.M{"external_id": externalID}
	if linkByEmail && email != "" {
		filter = bson.M{"$or": bson.A{
			bson.M{"external_id": externalID},
			bson.M{"email": email},
		}}
	}

	now := r.now()
	set := bson.M{"external_id": externalID, "updated_at": now}
	setOnInsert := bson.M{
		"_id":        defaults.ID,
		"email":      email,
		"role":       defaults.Role,
		"created_at": now,
	}
	if profile.Name != "" {
		set["name"] = profile.Name
	} else {
		setOnInsert["name"] = defaults.Name
	}
	if profile.PhotoURL != "" {
		set["photo_url"] = profile.PhotoURL
	} else {
		setOnInsert["photo_url"] = defaults.PhotoURL
	}

	update := bson.M{"$set": set, "$setOnInsert": setOnInsert}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var lastErr error
	for attempt := 0; attempt < upsertAttempts; attempt++ {
		var account entity.Account
		err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&account)
		if err == nil {
			return &account, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to upsert federated account: %w", err)
		}
		// A concurrent upsert won the insert. The next attempt matches its document.
		lastErr = err
	}
	return nil, fmt.Errorf("federated account %s: %w: %v", externalID, entity.ErrDuplicate, lastErr)
}
