package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

type SubscriptionUseCase struct {
	repo    contract.ISubscriptionRepository
	uuidGen contract.IUUIDGenerator
	logger  usecasecontract.IAppLogger
}

var _ usecasecontract.ISubscriptionUseCase = (*SubscriptionUseCase)(nil)

func NewSubscriptionUseCase(repo contract.ISubscriptionRepository, uuidGen contract.IUUIDGenerator, logger usecasecontract.IAppLogger) *SubscriptionUseCase {
	return &SubscriptionUseCase{repo: repo, uuidGen: uuidGen, logger: logger}
}

func (uc *SubscriptionUseCase) Subscribe(ctx context.Context, userID string) error {
	sub := &entity.Subscription{ID: uc.uuidGen.NewUUID(), UserID: userID, CreatedAt: time.Now()}
	if err := uc.repo.CreateSubscription(ctx, sub); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return entity.NewConflictError("User is already subscribed.")
		}
		uc.logger.Errorf("failed to subscribe %s: %v", userID, err)
		return entity.NewUpstreamError("Server error during subscription.", err)
	}
	return nil
}

func (uc *SubscriptionUseCase) Unsubscribe(ctx context.Context, userID string) error {
	if err := uc.repo.DeleteByUserID(ctx, userID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.NewNotFoundError("Subscription not found.")
		}
		uc.logger.Errorf("failed to unsubscribe %s: %v", userID, err)
		return entity.NewUpstreamError("Server error during unsubscription.", err)
	}
	return nil
}

func (uc *SubscriptionUseCase) IsSubscribed(ctx context.Context, userID string) (bool, error) {
	ok, err := uc.repo.ExistsForUser(ctx, userID)
	if err != nil {
		return false, entity.NewUpstreamError("Failed to get subscription status.", err)
	}
	return ok, nil
}

func (uc *SubscriptionUseCase) Count(ctx context.Context) (int64, error) {
	n, err := uc.repo.CountSubscriptions(ctx)
	if err != nil {
		return 0, entity.NewUpstreamError("Failed to get subscriber count.", err)
	}
	return n, nil
}
