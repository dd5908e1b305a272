package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"chathistory/internal/domain"
	"chathistory/internal/domain/models"
	"chathistory/internal/domain/repositories"
	"chathistory/internal/domain/services"
)

// identityService implements the IdentityService interface
type identityService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(userRepo repositories.UserRepository, logger *slog.Logger) services.IdentityService {
	return &identityService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ResolveUser looks up a user by email, creating one on first sight.
// Find-or-create lives here and nowhere else.
func (s *identityService) ResolveUser(ctx context.Context, email, displayName string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user = &models.User{Email: email}
	if displayName != "" {
		user.Name = &displayName
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Two first-sight requests can race past the lookup; the unique
		// constraint decides the winner and the loser re-fetches.
		if errors.Is(err, domain.ErrConflict) {
			return s.userRepo.GetByEmail(ctx, email)
		}
		return nil, err
	}

	s.logger.Info("user created",
		"id", user.ID,
		"email", user.Email,
	)

	return user, nil
}

// GetUserByEmail looks up a user without creating one
func (s *identityService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	return s.userRepo.GetByEmail(ctx, email)
}
