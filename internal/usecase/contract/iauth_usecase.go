package usecasecontract

import (
	"context"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// IAuthUseCase covers local and federated authentication for users and admins.
type IAuthUseCase interface {
	Register(ctx context.Context, name, email, password string) (*entity.Account, string, error)
	Login(ctx context.Context, email, password string) (*entity.Account, string, error)
	AdminLogin(ctx context.Context, email, password string) (string, error)
	// FederatedLogin verifies a provider token and links or creates the local account.
	FederatedLogin(ctx context.Context, rawToken, email string, profile entity.FederatedProfile) (*entity.Account, string, error)
	// LinkOrCreate links an already verified external identity and issues a session.
	LinkOrCreate(ctx context.Context, externalID, email string, profile entity.FederatedProfile) (*entity.Account, string, error)
	// AuthenticateFederated resolves a provider token to the linked local user.
	AuthenticateFederated(ctx context.Context, rawToken string) (*entity.Claims, error)
}

// IPasswordResetUseCase is the three step OTP reset protocol.
type IPasswordResetUseCase interface {
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}
