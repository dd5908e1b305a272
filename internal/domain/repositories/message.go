package repositories

import (
	"context"

	"chathistory/internal/domain/models"
)

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	// Create inserts a new message.
	// Returns domain.ErrNotFound if the conversation does not exist.
	Create(ctx context.Context, msg *models.Message) error

	// ListByConversation retrieves all messages for a conversation in
	// created_at ascending order. Returns empty slice if none.
	ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error)

	// DeleteByConversation removes all messages for a conversation and
	// returns the number of rows deleted.
	DeleteByConversation(ctx context.Context, conversationID string) (int64, error)
}
