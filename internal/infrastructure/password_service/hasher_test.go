package passwordservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := h.HashPassword(ctx, "p1")
	require.NoError(t, err)
	assert.NotEqual(t, "p1", hash)

	assert.NoError(t, h.ComparePasswordHash(ctx, "p1", hash))
	assert.ErrorIs(t, h.ComparePasswordHash(ctx, "p2", hash), ErrMismatch)
}

func TestCompare_MalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 1)
	err := h.ComparePasswordHash(context.Background(), "p1", "not-a-hash")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)
}

func TestHashPassword_RespectsContextWhenPoolIsFull(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 1)
	require.NoError(t, h.sem.Acquire(context.Background(), 1))
	defer h.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := h.HashPassword(ctx, "p1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHashString(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 1)
	assert.Equal(t, "", h.HashString(""))
	assert.Len(t, h.HashString("abc"), 64)
	assert.Equal(t, h.HashString("abc"), h.HashString("abc"))
}
