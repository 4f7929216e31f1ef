package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

const (
	issuer          = "mpi-backend"
	SessionAudience = "mpi-session"
	ResetAudience   = "mpi-password-reset"
)

// JWTManager signs and verifies HS256 tokens. Session and reset tokens use
// different keys and audiences so one can never be accepted as the other.
type JWTManager struct {
	keys map[string][]byte
	now  func() time.Time
}

// NewJWTManager creates a manager. When resetSecret is empty the reset key is
// derived from secret.
func NewJWTManager(secret, resetSecret string) *JWTManager {
	resetKey := []byte(resetSecret)
	if resetSecret == "" {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(ResetAudience))
		resetKey = mac.Sum(nil)
	}
	return &JWTManager{
		keys: map[string][]byte{
			SessionAudience: []byte(secret),
			ResetAudience:   resetKey,
		},
		now: time.Now,
	}
}

// SetClock overrides the time source, used by tests.
func (m *JWTManager) SetClock(now func() time.Time) {
	m.now = now
}

// Sign issues a token for claims in the given audience, valid for ttl.
func (m *JWTManager) Sign(audience string, claims entity.Claims, ttl time.Duration) (string, error) {
	key, ok := m.keys[audience]
	if !ok {
		return "", fmt.Errorf("unknown token audience %q", audience)
	}
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   claims.AccountID,
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, audience, issuer and expiry. Every
// failure is reported as entity.ErrInvalidToken.
func (m *JWTManager) Verify(audience, tokenStr string) (*entity.Claims, error) {
	key, ok := m.keys[audience]
	if !ok {
		return nil, entity.ErrInvalidToken
	}
	claims := &entity.Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, entity.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, entity.ErrInvalidToken
	}
	claims.AccountID = claims.Subject
	return claims, nil
}
