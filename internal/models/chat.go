package models

import "time"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role      string    `bson:"role" json:"role"`
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Chat is the durable free-form conversation transcript, one document per
// user. Distinct from tutoring sessions, which are ephemeral and in-memory.
type Chat struct {
	ID        string        `bson:"_id,omitempty" json:"id"`
	UserID    string        `bson:"user_id" json:"user_id"`
	Messages  []ChatMessage `bson:"messages" json:"messages"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}
