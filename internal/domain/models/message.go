package models

import "time"

// Message roles. These are the stored role strings; provider adapters map
// them to each external API's vocabulary (Gemini calls the assistant side
// "model").
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one immutable utterance in a conversation.
type Message struct {
	ID             string    `json:"id" db:"id"`
	ConversationID string    `json:"conversationId" db:"conversation_id"`
	Role           string    `json:"role" db:"role"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// ValidRole reports whether role is one of the stored role strings.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
