package entity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified identity bound to a request.
type Claims struct {
	// AccountID mirrors the registered subject claim.
	AccountID string `json:"-"`
	Role      Role   `json:"role,omitempty"`

	// PasswordFingerprint ties a reset-session token to the password hash it may replace.
	PasswordFingerprint string `json:"pwd,omitempty"`

	jwt.RegisteredClaims
}

// FederatedClaims is what a verified identity-provider token asserts.
type FederatedClaims struct {
	Subject   string
	Email     string
	Name      string
	PhotoURL  string
	ExpiresAt time.Time
}
