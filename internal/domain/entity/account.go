package entity

import (
	"time"
)

// Account represents a user or an admin. Users and admins live in separate
// collections and never overlap; Role is fixed by the collection.
type Account struct {
	ID             string     `bson:"_id,omitempty" json:"id"`
	Name           string     `bson:"name" json:"name"`
	Email          string     `bson:"email" json:"email"`
	PasswordHash   string     `bson:"password_hash,omitempty" json:"-"`
	Role           Role       `bson:"role" json:"role"`
	ExternalID     string     `bson:"external_id,omitempty" json:"-"`
	PhotoURL       string     `bson:"photo_url" json:"photo_url"`
	ResetOTPHash   string     `bson:"reset_otp_hash,omitempty" json:"-"`
	ResetOTPExpiry *time.Time `bson:"reset_otp_expiry,omitempty" json:"-"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at" json:"updated_at"`
}

// HasPassword reports whether the account can log in with a local password.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// Role represents the role embedded in session tokens
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// FederatedProfile carries the profile fields asserted by an identity provider.
type FederatedProfile struct {
	Name     string
	PhotoURL string
}
