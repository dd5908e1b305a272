package repositories

import (
	"context"

	"chathistory/internal/domain/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user row.
	// Returns domain.ErrConflict if the email is already taken.
	Create(ctx context.Context, user *models.User) error

	// GetByEmail retrieves a user by email.
	// Returns domain.ErrNotFound if no user exists for the email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID retrieves a user by id.
	// Returns domain.ErrNotFound if not found.
	GetByID(ctx context.Context, userID string) (*models.User, error)
}
