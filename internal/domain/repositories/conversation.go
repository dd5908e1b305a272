package repositories

import (
	"context"

	"chathistory/internal/domain/models"
)

// ConversationRepository defines the interface for conversation data access
type ConversationRepository interface {
	// Create inserts a new conversation.
	// Returns domain.ErrNotFound if the owning user does not exist.
	Create(ctx context.Context, conv *models.Conversation) error

	// GetOwned retrieves a conversation by ID scoped to its owner.
	// Returns domain.ErrNotFound if the id does not exist or belongs to
	// another user.
	GetOwned(ctx context.Context, conversationID, userID string) (*models.Conversation, error)

	// GetByID retrieves a conversation by ID only (no owner scoping).
	// Returns domain.ErrNotFound if not found.
	GetByID(ctx context.Context, conversationID string) (*models.Conversation, error)

	// ListByUser retrieves all conversations for a user, most recently
	// updated first. Returns empty slice if none.
	ListByUser(ctx context.Context, userID string) ([]models.Conversation, error)

	// UpdateTitle sets a conversation's title and touches updated_at.
	// Returns domain.ErrNotFound if not found.
	UpdateTitle(ctx context.Context, conversationID, title string) error

	// Touch bumps a conversation's updated_at.
	Touch(ctx context.Context, conversationID string) error

	// Delete removes a conversation. Child messages cascade at the store
	// level. Returns domain.ErrNotFound if not found.
	Delete(ctx context.Context, conversationID string) error
}
