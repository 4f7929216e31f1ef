package entity

import "time"

type ChatRole string

const (
	ChatRoleUser ChatRole = "user"
	ChatRoleBot  ChatRole = "bot"
)

type ChatMessage struct {
	Role    ChatRole  `bson:"role" json:"role"`
	Content string    `bson:"content" json:"content"`
	At      time.Time `bson:"at" json:"at"`
}

// Conversation is the durable chatbot history for one client conversation.
type Conversation struct {
	ID        string        `bson:"_id" json:"id"`
	Messages  []ChatMessage `bson:"messages" json:"messages"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}
