package contract

import (
	"context"
	"time"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// IAccountRepository persists accounts of a single role (users or admins).
type IAccountRepository interface {
	// CreateAccount inserts a new account. Returns entity.ErrDuplicate when the email is taken.
	CreateAccount(ctx context.Context, account *entity.Account) error
	GetAccountByID(ctx context.Context, id string) (*entity.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetAccountByExternalID(ctx context.Context, externalID string) (*entity.Account, error)
	ListAccounts(ctx context.Context) ([]*entity.Account, error)
	CountAccounts(ctx context.Context) (int64, error)
	// UpdateProfile sets the given profile fields and returns the updated account.
	UpdateProfile(ctx context.Context, id string, name, photoURL *string) (*entity.Account, error)
	// UpdatePassword replaces the password hash only if it still equals oldHash.
	UpdatePassword(ctx context.Context, id, oldHash, newHash string) error
	DeleteAccount(ctx context.Context, id string) error

	// SetResetOTP stores the OTP hash and expiry together on the account with the
	// given email and returns it. Returns entity.ErrNotFound without mutating anything
	// when no account matches.
	SetResetOTP(ctx context.Context, email, otpHash string, expiry time.Time) (*entity.Account, error)
	// GetAccountWithActiveOTP returns the account whose OTP expiry is after now.
	GetAccountWithActiveOTP(ctx context.Context, email string, now time.Time) (*entity.Account, error)
	// ClearResetOTP removes both OTP fields if the stored hash still equals otpHash.
	// Returns entity.ErrNotFound when the code was already consumed.
	ClearResetOTP(ctx context.Context, id, otpHash string) error

	// UpsertFederated links or creates an account in one atomic operation. The
	// account matches by external id, and also by email when linkByEmail is set.
	// Creating an account whose email is taken returns entity.ErrDuplicate.
	UpsertFederated(ctx context.Context, externalID, email string, linkByEmail bool, profile entity.FederatedProfile, defaults *entity.Account) (*entity.Account, error)
}
