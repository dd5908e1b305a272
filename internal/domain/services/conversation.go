package services

import (
	"context"

	"chathistory/internal/domain/models"
)

// CreateConversationRequest is the DTO for explicit conversation creation
type CreateConversationRequest struct {
	UserID string `json:"userId"`
	Title  string `json:"title"`
}

// AddMessageRequest is the DTO for appending a message to a conversation
type AddMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationService owns conversation lifecycle, ownership checks, and
// the title-assignment rule.
type ConversationService interface {
	// ResolveConversation returns the conversation with the given id owned
	// by user, or creates a fresh one with the default title when the id is
	// empty, unknown, or owned by someone else. An invalid/foreign id never
	// fails a turn.
	ResolveConversation(ctx context.Context, user *models.User, conversationID string) (*models.Conversation, error)

	// MaybeSetTitle applies the title rule: if the conversation still
	// carries the default placeholder title, replace it with a truncation
	// of the first user message; otherwise only bump updated_at. Either
	// way the conversation's recency reflects the completed turn.
	MaybeSetTitle(ctx context.Context, conv *models.Conversation, firstMessage string) error

	// CreateConversation explicitly creates a conversation for a user.
	// Returns domain.ErrValidation if UserID is empty.
	CreateConversation(ctx context.Context, req *CreateConversationRequest) (*models.Conversation, error)

	// ListConversations returns a user's conversations with messages
	// attached, most recently updated first.
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)

	// DeleteConversation removes a conversation and all of its messages.
	// Returns domain.ErrNotFound if the id does not exist.
	DeleteConversation(ctx context.Context, conversationID string) error

	// AddMessage appends a message to an existing conversation.
	// Returns domain.ErrNotFound if the conversation does not exist and
	// domain.ErrValidation for a missing role/content or unknown role.
	AddMessage(ctx context.Context, conversationID string, req *AddMessageRequest) (*models.Message, error)

	// ListMessages returns a conversation's messages in created_at
	// ascending order.
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)

	// ClearMessages deletes all messages in a conversation and returns the
	// number removed.
	ClearMessages(ctx context.Context, conversationID string) (int64, error)
}
