package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// recentUploadsWindow is the lookback for the dashboard's recent uploads counter.
const recentUploadsWindow = 7 * 24 * time.Hour

// AdminUseCase backs the admin console.
type AdminUseCase struct {
	users         contract.IAccountRepository
	admins        contract.IAccountRepository
	subscriptions contract.ISubscriptionRepository
	news          contract.INewsRepository
	gallery       contract.IGalleryRepository
	hasher        contract.IHasher
	validator     usecasecontract.IValidator
	uuidGen       contract.IUUIDGenerator
	logger        usecasecontract.IAppLogger
	config        usecasecontract.IConfigProvider
	now           func() time.Time
}

var _ usecasecontract.IAdminUseCase = (*AdminUseCase)(nil)

func NewAdminUseCase(
	users contract.IAccountRepository,
	admins contract.IAccountRepository,
	subscriptions contract.ISubscriptionRepository,
	news contract.INewsRepository,
	gallery contract.IGalleryRepository,
	hasher contract.IHasher,
	validator usecasecontract.IValidator,
	uuidGen contract.IUUIDGenerator,
	logger usecasecontract.IAppLogger,
	cfg usecasecontract.IConfigProvider,
) *AdminUseCase {
	return &AdminUseCase{
		users:         users,
		admins:        admins,
		subscriptions: subscriptions,
		news:          news,
		gallery:       gallery,
		hasher:        hasher,
		validator:     validator,
		uuidGen:       uuidGen,
		logger:        logger,
		config:        cfg,
		now:           time.Now,
	}
}

// AddAdmin creates an admin account. Admin passwords must pass the strength policy.
func (uc *AdminUseCase) AddAdmin(ctx context.Context, name, email, password string) (*entity.Account, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, entity.NewValidationError("Name, email, and password are required.")
	}
	if err := uc.validator.ValidateEmail(email); err != nil {
		return nil, entity.NewValidationError("Please provide a valid email address.")
	}
	if err := uc.validator.ValidatePasswordStrength(password); err != nil {
		return nil, entity.NewValidationError(err.Error())
	}
	return uc.createAdmin(ctx, name, email, password)
}

func (uc *AdminUseCase) createAdmin(ctx context.Context, name, email, password string) (*entity.Account, error) {
	hashed, err := uc.hasher.HashPassword(ctx, password)
	if err != nil {
		uc.logger.Errorf("failed to hash admin password: %v", err)
		return nil, entity.NewUpstreamError(msgInternalServer, err)
	}
	now := uc.now()
	admin := &entity.Account{
		ID:           uc.uuidGen.NewUUID(),
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         entity.RoleAdmin,
		PhotoURL:     uc.config.GetDefaultPhotoURL(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.admins.CreateAccount(ctx, admin); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return nil, entity.NewDuplicateError("An admin with that email already exists.")
		}
		uc.logger.Errorf("failed to create admin: %v", err)
		return nil, entity.NewUpstreamError(msgInternalServer, err)
	}
	uc.logger.Infof("admin account %s created", admin.ID)
	return admin, nil
}

// EnsureBootstrapAdmin seeds the first admin when email and password are set.
// It does nothing once any admin exists.
func (uc *AdminUseCase) EnsureBootstrapAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	n, err := uc.admins.CountAccounts(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := uc.createAdmin(ctx, strings.TrimSpace(name), email, password); err != nil {
		if entity.KindOf(err) == entity.KindDuplicate {
			return nil
		}
		return err
	}
	return nil
}

func (uc *AdminUseCase) ListUsers(ctx context.Context) ([]*entity.Account, error) {
	users, err := uc.users.ListAccounts(ctx)
	if err != nil {
		uc.logger.Errorf("failed to list users: %v", err)
		return nil, entity.NewUpstreamError(msgInternalServer, err)
	}
	return users, nil
}

// DeleteUser removes the user and the user's subscription.
func (uc *AdminUseCase) DeleteUser(ctx context.Context, userID string) error {
	if err := uc.users.DeleteAccount(ctx, userID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.NewNotFoundError(errUserNotFound)
		}
		uc.logger.Errorf("failed to delete user %s: %v", userID, err)
		return entity.NewUpstreamError(msgInternalServer, err)
	}
	if err := uc.subscriptions.DeleteByUserID(ctx, userID); err != nil && !errors.Is(err, entity.ErrNotFound) {
		uc.logger.Warnf("failed to delete subscription of removed user %s: %v", userID, err)
	}
	return nil
}

func (uc *AdminUseCase) ListPersonnel(ctx context.Context) ([]*entity.Account, error) {
	admins, err := uc.admins.ListAccounts(ctx)
	if err != nil {
		uc.logger.Errorf("failed to list admins: %v", err)
		return nil, entity.NewUpstreamError(msgInternalServer, err)
	}
	return admins, nil
}

func (uc *AdminUseCase) GetAdmin(ctx context.Context, adminID string) (*entity.Account, error) {
	admin, err := uc.admins.GetAccountByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.NewNotFoundError("Admin not found.")
		}
		return nil, entity.NewUpstreamError(msgInternalServer, err)
	}
	return admin, nil
}

// GetStats runs the three dashboard counts concurrently.
func (uc *AdminUseCase) GetStats(ctx context.Context) (*entity.ContentStats, error) {
	var stats entity.ContentStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalNews, err = uc.news.CountPosts(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalImages, err = uc.gallery.CountImages(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentUploadsCount, err = uc.news.CountPostsCreatedSince(gctx, uc.now().Add(-recentUploadsWindow))
		return err
	})
	if err := g.Wait(); err != nil {
		uc.logger.Errorf("failed to compute stats: %v", err)
		return nil, entity.NewUpstreamError(msgInternalServer, err)
	}
	return &stats, nil
}
