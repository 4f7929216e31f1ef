package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// Gin context keys for the authenticated identity.
const (
	ContextAccountID = "userID"
	ContextRole      = "role"
)

type identityKey struct{}

// SessionVerifier validates locally issued session tokens.
type SessionVerifier interface {
	ParseSessionToken(tokenStr string) (*entity.Claims, error)
}

// FederatedAuthenticator resolves an identity provider token to a linked local user.
type FederatedAuthenticator interface {
	AuthenticateFederated(ctx context.Context, rawToken string) (*entity.Claims, error)
}

// AuthMiddleware requires a bearer token whose role is one of roles. Session
// tokens are tried first, then federated tokens when federated is non-nil.
// With no roles any authenticated identity passes.
func AuthMiddleware(tokens SessionVerifier, federated FederatedAuthenticator, roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, http.StatusUnauthorized, "no token")
			return
		}

		claims, err := tokens.ParseSessionToken(raw)
		if err != nil && federated != nil {
			claims, err = federated.AuthenticateFederated(c.Request.Context(), raw)
		}
		if err != nil || claims == nil || claims.AccountID == "" {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		if !roleAllowed(claims.Role, roles) {
			abort(c, http.StatusForbidden, "forbidden")
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextRole, claims.Role)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), identityKey{}, claims))
		c.Next()
	}
}

// BearerToken returns the raw token of an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) (string, bool) {
	return bearerToken(c.GetHeader("Authorization"))
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func roleAllowed(role entity.Role, roles []entity.Role) bool {
	if len(roles) == 0 {
		return role == entity.RoleUser || role == entity.RoleAdmin
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// AccountID returns the authenticated account id bound by AuthMiddleware.
func AccountID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextAccountID)
	return id, id != ""
}

// ClaimsFromContext returns the identity bound to a request context.
func ClaimsFromContext(ctx context.Context) (*entity.Claims, bool) {
	claims, ok := ctx.Value(identityKey{}).(*entity.Claims)
	return claims, ok
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
