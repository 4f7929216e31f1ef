package passwordservice

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// ErrMismatch is returned when a password or code does not match its hash.
var ErrMismatch = errors.New("password verification failed")

// Hasher runs bcrypt on a bounded pool so bursts of logins cannot starve
// the rest of the server of CPU.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// check if IHasher was implemented at compile time
var _ contract.IHasher = (*Hasher)(nil)

// NewHasher creates a hasher allowing at most concurrency bcrypt operations at once.
func NewHasher(cost, concurrency int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Hasher{cost: cost, sem: semaphore.NewWeighted(int64(concurrency))}
}

func (h *Hasher) HashPassword(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("hash pool: %w", err)
	}
	defer h.sem.Release(1)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func (h *Hasher) ComparePasswordHash(ctx context.Context, password, hashedPassword string) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("hash pool: %w", err)
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("failed to check password hash: %w", err)
	}
	return nil
}

func (h *Hasher) HashString(s string) string {
	// SHA256 for fingerprints, not for secrets
	if s == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", hash)
}
