package federated

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

const (
	memoSize = 1024
	memoTTL  = 5 * time.Minute
)

// Options configures a Verifier. Issuer and Audience are enforced only when set.
type Options struct {
	JWKSURL  string
	Issuer   string
	Audience string
}

// Verifier checks provider-issued ID tokens against a remote JWKS. Keys are
// selected by kid and refetched when an unknown kid shows up.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
	memo     *expirable.LRU[string, entity.FederatedClaims]
	now      func() time.Time
}

var _ contract.IFederatedVerifier = (*Verifier)(nil)

// NewVerifier builds a verifier. ctx bounds the lifetime of key set fetches.
func NewVerifier(ctx context.Context, opts Options) *Verifier {
	keySet := oidc.NewRemoteKeySet(ctx, opts.JWKSURL)
	v := &Verifier{
		memo: expirable.NewLRU[string, entity.FederatedClaims](memoSize, nil, memoTTL),
		now:  time.Now,
	}
	v.verifier = oidc.NewVerifier(opts.Issuer, keySet, &oidc.Config{
		ClientID:             opts.Audience,
		SkipClientIDCheck:    opts.Audience == "",
		SkipIssuerCheck:      opts.Issuer == "",
		SupportedSigningAlgs: []string{oidc.RS256, oidc.ES256},
		Now:                  func() time.Time { return v.now() },
	})
	return v
}

type profileClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Verify returns the identity asserted by rawToken. Every failure, including
// an unreachable key set, is entity.ErrInvalidToken.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*entity.FederatedClaims, error) {
	if rawToken == "" {
		return nil, entity.ErrInvalidToken
	}
	key := memoKey(rawToken)
	if cached, ok := v.memo.Get(key); ok {
		if v.now().Before(cached.ExpiresAt) {
			return &cached, nil
		}
		v.memo.Remove(key)
	}

	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, entity.ErrInvalidToken
	}
	if idToken.Subject == "" {
		return nil, entity.ErrInvalidToken
	}
	var pc profileClaims
	if err := idToken.Claims(&pc); err != nil {
		return nil, entity.ErrInvalidToken
	}

	claims := entity.FederatedClaims{
		Subject:   idToken.Subject,
		Email:     pc.Email,
		Name:      pc.Name,
		PhotoURL:  pc.Picture,
		ExpiresAt: idToken.Expiry,
	}
	v.memo.Add(key, claims)
	return &claims, nil
}

func memoKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
