package dto

import "github.com/mpikenya/mpi-backend/internal/domain/entity"

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type VolunteerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Reason   string `json:"reason"`
}

type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

type ChatResponse struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id"`
}

type NewsCreatedResponse struct {
	Message string           `json:"message"`
	Post    *entity.NewsPost `json:"post"`
}

type GalleryUploadResponse struct {
	Message string                 `json:"message"`
	Images  []*entity.GalleryImage `json:"images"`
}

type SubscriptionStatusResponse struct {
	IsSubscribed bool `json:"isSubscribed"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

// ProfileUpdatedResponse is returned after a profile picture upload.
type ProfileUpdatedResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// AdminCreatedResponse is returned by POST /admin/add-admin.
type AdminCreatedResponse struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Message string `json:"message"`
}
