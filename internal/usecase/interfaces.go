package usecase

import (
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// TokenService issues and verifies signed, time-limited bearer tokens.
// Every Parse* failure is entity.ErrInvalidToken.
type TokenService interface {
	GenerateSessionToken(accountID string, role entity.Role) (string, error)
	ParseSessionToken(token string) (*entity.Claims, error)
	GenerateResetToken(accountID, passwordFingerprint string) (string, error)
	ParseResetToken(token string) (*entity.Claims, error)
}
