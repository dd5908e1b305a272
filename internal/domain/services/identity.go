package services

import (
	"context"

	"chathistory/internal/domain/models"
)

// IdentityService finds or lazily creates the User record behind an
// authenticated principal. Creation and lookup live in exactly one place.
type IdentityService interface {
	// ResolveUser looks up a user by email, creating one with the given
	// display name on first sight. Idempotent: the same email always
	// resolves to the same logical row.
	// Returns domain.ErrValidation if email is empty.
	ResolveUser(ctx context.Context, email, displayName string) (*models.User, error)

	// GetUserByEmail looks up a user without creating one.
	// Returns domain.ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
