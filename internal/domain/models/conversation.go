package models

import "time"

// DefaultConversationTitle is the placeholder title every new conversation
// starts with. The title rule replaces it after the first completed turn.
const DefaultConversationTitle = "New Conversation"

// Conversation is a titled, owned container for an ordered sequence of
// messages.
type Conversation struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Messages is populated by list/get operations that include history,
	// ordered by created_at ascending. Never nil on the wire.
	Messages []Message `json:"messages"`
}
