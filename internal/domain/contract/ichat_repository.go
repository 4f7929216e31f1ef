package contract

import (
	"context"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// IChatRepository stores chatbot conversations.
type IChatRepository interface {
	GetConversation(ctx context.Context, id string) (*entity.Conversation, error)
	// AppendMessages appends to the conversation, creating it if needed, and keeps
	// only the newest limit messages.
	AppendMessages(ctx context.Context, id string, messages []entity.ChatMessage, limit int) error
}
