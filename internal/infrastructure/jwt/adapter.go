package jwt

import (
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	"github.com/mpikenya/mpi-backend/internal/usecase"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

// JWTServiceAdapter adapts JWTManager to the usecase.TokenService interface.
// It picks the audience and TTL for each token kind.
type JWTServiceAdapter struct {
	mgr *JWTManager
	cfg usecasecontract.IConfigProvider
}

var _ usecase.TokenService = (*JWTServiceAdapter)(nil)

// NewJWTService creates a new usecase.TokenService from JWTManager
func NewJWTService(mgr *JWTManager, cfg usecasecontract.IConfigProvider) *JWTServiceAdapter {
	return &JWTServiceAdapter{mgr: mgr, cfg: cfg}
}

// GenerateSessionToken issues a login session. Admin sessions get the shorter admin TTL.
func (a *JWTServiceAdapter) GenerateSessionToken(accountID string, role entity.Role) (string, error) {
	ttl := a.cfg.GetUserSessionTTL()
	if role == entity.RoleAdmin {
		ttl = a.cfg.GetAdminSessionTTL()
	}
	return a.mgr.Sign(SessionAudience, entity.Claims{AccountID: accountID, Role: role}, ttl)
}

// ParseSessionToken validates a session token and returns its claims.
func (a *JWTServiceAdapter) ParseSessionToken(tokenStr string) (*entity.Claims, error) {
	claims, err := a.mgr.Verify(SessionAudience, tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Role != entity.RoleUser && claims.Role != entity.RoleAdmin {
		return nil, entity.ErrInvalidToken
	}
	return claims, nil
}

// GenerateResetToken issues a password reset session bound to the current password hash.
func (a *JWTServiceAdapter) GenerateResetToken(accountID, passwordFingerprint string) (string, error) {
	claims := entity.Claims{AccountID: accountID, PasswordFingerprint: passwordFingerprint}
	return a.mgr.Sign(ResetAudience, claims, a.cfg.GetResetSessionTTL())
}

// ParseResetToken validates a password reset token.
func (a *JWTServiceAdapter) ParseResetToken(tokenStr string) (*entity.Claims, error) {
	return a.mgr.Verify(ResetAudience, tokenStr)
}
