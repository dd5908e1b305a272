package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"chathistory/internal/config"
	"chathistory/internal/domain"
	"chathistory/internal/domain/models"
	"chathistory/internal/domain/repositories"
	"chathistory/internal/domain/services"
)

// conversationService implements the ConversationService interface
type conversationService struct {
	convRepo  repositories.ConversationRepository
	msgRepo   repositories.MessageRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	convRepo repositories.ConversationRepository,
	msgRepo repositories.MessageRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ConversationService {
	return &conversationService{
		convRepo:  convRepo,
		msgRepo:   msgRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// ResolveConversation finds a conversation owned by user or creates a new
// one. An unknown, malformed, or foreign id deliberately falls through to
// creation instead of failing, so a client repost never hard-fails a turn.
// Malformed ids are caught before the query; the id column is uuid-typed
// and would reject them with a syntax error rather than a clean miss.
func (s *conversationService) ResolveConversation(ctx context.Context, user *models.User, conversationID string) (*models.Conversation, error) {
	if _, err := uuid.Parse(conversationID); err != nil {
		conversationID = ""
	}

	if conversationID != "" {
		conv, err := s.convRepo.GetOwned(ctx, conversationID, user.ID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	conv := &models.Conversation{
		UserID: user.ID,
		Title:  models.DefaultConversationTitle,
	}
	if err := s.convRepo.Create(ctx, conv); err != nil {
		return nil, err
	}

	s.logger.Info("conversation created",
		"id", conv.ID,
		"user_id", user.ID,
	)

	return conv, nil
}

// MaybeSetTitle applies the title rule once per conversation lifetime:
// when the title is still the default placeholder, replace it with the
// first 50 characters of the first user message plus an ellipsis marker.
// The guard compares against the placeholder value; a first message that
// itself begins with the placeholder text skips the cosmetic retitle,
// which is the accepted trade-off over a schema flag.
// Either branch bumps updated_at, so listing order tracks the latest turn.
func (s *conversationService) MaybeSetTitle(ctx context.Context, conv *models.Conversation, firstMessage string) error {
	if conv.Title != models.DefaultConversationTitle {
		return s.convRepo.Touch(ctx, conv.ID)
	}

	title := TitleFromMessage(firstMessage)
	if err := s.convRepo.UpdateTitle(ctx, conv.ID, title); err != nil {
		return err
	}
	conv.Title = title

	s.logger.Info("conversation titled",
		"id", conv.ID,
		"title", title,
	)

	return nil
}

// TitleFromMessage derives a conversation title from its first user
// message: the first 50 characters (rune-safe) plus "...".
func TitleFromMessage(message string) string {
	runes := []rune(strings.TrimSpace(message))
	if len(runes) > config.TitleSnippetLength {
		runes = runes[:config.TitleSnippetLength]
	}
	return string(runes) + "..."
}

// CreateConversation explicitly creates a conversation for a user
func (s *conversationService) CreateConversation(ctx context.Context, req *services.CreateConversationRequest) (*models.Conversation, error) {
	if err := s.validateCreateConversationRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = models.DefaultConversationTitle
	}

	conv := &models.Conversation{
		UserID: req.UserID,
		Title:  title,
	}
	if err := s.convRepo.Create(ctx, conv); err != nil {
		return nil, err
	}

	s.logger.Info("conversation created",
		"id", conv.ID,
		"title", conv.Title,
		"user_id", req.UserID,
	)

	return conv, nil
}

// ListConversations returns a user's conversations with messages attached
func (s *conversationService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	convs, err := s.convRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range convs {
		msgs, err := s.msgRepo.ListByConversation(ctx, convs[i].ID)
		if err != nil {
			return nil, err
		}
		convs[i].Messages = msgs
	}

	return convs, nil
}

// DeleteConversation removes a conversation and all of its messages in one
// transaction. The messages FK cascades, but deleting them explicitly first
// keeps the count observable in logs and the behavior independent of the
// schema's cascade rule.
func (s *conversationService) DeleteConversation(ctx context.Context, conversationID string) error {
	if _, err := s.convRepo.GetByID(ctx, conversationID); err != nil {
		return err
	}

	var deleted int64
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		n, err := s.msgRepo.DeleteByConversation(txCtx, conversationID)
		if err != nil {
			return err
		}
		deleted = n
		return s.convRepo.Delete(txCtx, conversationID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("conversation deleted",
		"id", conversationID,
		"messages_deleted", deleted,
	)

	return nil
}

// AddMessage appends a message to an existing conversation
func (s *conversationService) AddMessage(ctx context.Context, conversationID string, req *services.AddMessageRequest) (*models.Message, error) {
	if err := s.validateAddMessageRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !models.ValidRole(req.Role) {
		return nil, fmt.Errorf("%w: role must be %q or %q", domain.ErrValidation, models.RoleUser, models.RoleAssistant)
	}

	if _, err := s.convRepo.GetByID(ctx, conversationID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conversationID,
		Role:           req.Role,
		Content:        req.Content,
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// ListMessages returns a conversation's messages in created_at ascending
// order
func (s *conversationService) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	return s.msgRepo.ListByConversation(ctx, conversationID)
}

// ClearMessages deletes all messages in a conversation
func (s *conversationService) ClearMessages(ctx context.Context, conversationID string) (int64, error) {
	deleted, err := s.msgRepo.DeleteByConversation(ctx, conversationID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("messages cleared",
		"conversation_id", conversationID,
		"messages_deleted", deleted,
	)

	return deleted, nil
}

func (s *conversationService) validateCreateConversationRequest(req *services.CreateConversationRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Title, validation.Length(0, config.MaxConversationTitleLength)),
	)
}

func (s *conversationService) validateAddMessageRequest(req *services.AddMessageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Role, validation.Required),
		validation.Field(&req.Content,
			validation.Required,
			validation.Length(1, config.MaxMessageLength),
		),
	)
}
