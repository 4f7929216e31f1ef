package contract

import (
	"context"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

type ISubscriptionRepository interface {
	// CreateSubscription returns entity.ErrDuplicate if the user is already subscribed.
	CreateSubscription(ctx context.Context, sub *entity.Subscription) error
	DeleteByUserID(ctx context.Context, userID string) error
	ExistsForUser(ctx context.Context, userID string) (bool, error)
	CountSubscriptions(ctx context.Context) (int64, error)
}
