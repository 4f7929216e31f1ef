package dto

import (
	"time"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	PhotoURL  string `json:"photo_url"`
	CreatedAt string `json:"created_at"`
}

// AuthResponse is returned by every endpoint that signs a user in.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// TokenResponse is returned by admin login.
type TokenResponse struct {
	Token string `json:"token"`
}

// ResetTokenResponse carries the reset session token after OTP verification.
type ResetTokenResponse struct {
	ResetPasswordToken string `json:"resetPasswordToken"`
}

// ToUserResponse converts an entity.Account to a UserResponse DTO.
func ToUserResponse(account entity.Account) UserResponse {
	return UserResponse{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Role:      string(account.Role),
		PhotoURL:  account.PhotoURL,
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
	}
}

func ToUserResponses(accounts []*entity.Account) []UserResponse {
	out := make([]UserResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, ToUserResponse(*a))
	}
	return out
}

// MessageResponse is a generic response for success messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
}
