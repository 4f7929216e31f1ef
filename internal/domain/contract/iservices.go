package contract

import (
	"context"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// IHasher hashes passwords and one-time codes.
type IHasher interface {
	HashPassword(ctx context.Context, password string) (string, error)
	ComparePasswordHash(ctx context.Context, password, hashedPassword string) error
	// HashString is a fast, non-secret digest used for fingerprints.
	HashString(s string) string
}

type IEmailService interface {
	SendEmail(ctx context.Context, msg entity.EmailMessage) error
}

type IRandomGenerator interface {
	GenerateRandomToken(n int) (string, error)
	// GenerateOTP returns a uniformly random 6-digit numeric code.
	GenerateOTP() (string, error)
}

type IUUIDGenerator interface {
	NewUUID() string
}

// IObjectStorage stores uploaded files and returns their public location.
type IObjectStorage interface {
	Upload(ctx context.Context, folder string, file entity.Upload) (*entity.StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// IFederatedVerifier verifies tokens issued by an external identity provider.
type IFederatedVerifier interface {
	Verify(ctx context.Context, rawToken string) (*entity.FederatedClaims, error)
}
