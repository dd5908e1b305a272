package service

import (
	"context"
	"fmt"
	"log/slog"

	"chathistory/internal/capabilities"
	"chathistory/internal/config"
	"chathistory/internal/domain"
	"chathistory/internal/domain/models"
	"chathistory/internal/domain/repositories"
	"chathistory/internal/domain/services"
	"chathistory/internal/domain/services/llm"
)

// turnService implements the TurnService interface
type turnService struct {
	identity      services.IdentityService
	conversations services.ConversationService
	msgRepo       repositories.MessageRepository
	providers     llm.ProviderResolver
	caps          *capabilities.Registry
	cfg           *config.Config
	logger        *slog.Logger
}

// NewTurnService creates a new turn service
func NewTurnService(
	identity services.IdentityService,
	conversations services.ConversationService,
	msgRepo repositories.MessageRepository,
	providers llm.ProviderResolver,
	caps *capabilities.Registry,
	cfg *config.Config,
	logger *slog.Logger,
) services.TurnService {
	return &turnService{
		identity:      identity,
		conversations: conversations,
		msgRepo:       msgRepo,
		providers:     providers,
		caps:          caps,
		cfg:           cfg,
		logger:        logger,
	}
}

// HandleTurn runs one full turn: resolve identity, resolve conversation,
// persist the inbound user message, invoke the external model over the
// prior history, persist the assistant reply, apply the title rule.
// Steps run sequentially with no retries; a model failure after step 4
// leaves the user message in place (an accepted unpaired state).
func (s *turnService) HandleTurn(ctx context.Context, principal services.Principal, req *services.TurnRequest) (*services.TurnResult, error) {
	if req.Message == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrValidation)
	}
	if len(req.Message) > config.MaxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", domain.ErrValidation, config.MaxMessageLength)
	}

	user, err := s.identity.ResolveUser(ctx, principal.Email, principal.Name)
	if err != nil {
		return nil, err
	}

	conv, err := s.conversations.ResolveConversation(ctx, user, req.ConversationID)
	if err != nil {
		return nil, err
	}

	// Prior history is loaded before the inbound message is persisted; the
	// new message rides separately as the final turn input, never twice.
	prior, err := s.msgRepo.ListByConversation(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	userMsg := &models.Message{
		ConversationID: conv.ID,
		Role:           models.RoleUser,
		Content:        req.Message,
	}
	if err := s.msgRepo.Create(ctx, userMsg); err != nil {
		return nil, err
	}

	history, err := s.buildHistory(prior, req.History)
	if err != nil {
		return nil, err
	}

	assistantText, err := s.generate(ctx, history, req.Message)
	if err != nil {
		// The user message stays; callers render it as unanswered.
		s.logger.Error("model invocation failed",
			"conversation_id", conv.ID,
			"error", err,
		)
		return nil, &domain.UpstreamError{Message: "failed to generate response"}
	}

	assistantMsg := &models.Message{
		ConversationID: conv.ID,
		Role:           models.RoleAssistant,
		Content:        assistantText,
	}
	if err := s.msgRepo.Create(ctx, assistantMsg); err != nil {
		return nil, err
	}

	if err := s.conversations.MaybeSetTitle(ctx, conv, req.Message); err != nil {
		return nil, err
	}

	s.logger.Info("turn completed",
		"conversation_id", conv.ID,
		"user_id", user.ID,
		"message_id", assistantMsg.ID,
	)

	return &services.TurnResult{
		Response:       assistantText,
		ConversationID: conv.ID,
		MessageID:      assistantMsg.ID,
	}, nil
}

// buildHistory picks the transcript for the model call. Persisted rows are
// authoritative; client-supplied transient history only fills in when the
// conversation has no rows yet (a client-local session continued against a
// fresh server conversation).
func (s *turnService) buildHistory(prior []models.Message, transient []services.TranscriptEntry) ([]llm.Message, error) {
	if len(prior) > 0 || len(transient) == 0 {
		return FormatHistory(prior), nil
	}
	return NormalizeTranscript(transient)
}

func (s *turnService) generate(ctx context.Context, history []llm.Message, message string) (string, error) {
	provider, err := s.providers.GetProvider(s.cfg.DefaultProvider)
	if err != nil {
		return "", err
	}

	defaults := s.caps.GetDefaults(s.cfg.DefaultProvider, s.cfg.DefaultModel)

	messages := append(history, llm.Message{
		Role: models.RoleUser,
		Text: message,
	})

	resp, err := provider.GenerateResponse(ctx, &llm.GenerateRequest{
		Model:           s.cfg.DefaultModel,
		Messages:        messages,
		MaxOutputTokens: defaults.MaxOutputTokens,
		Temperature:     defaults.Temperature,
	})
	if err != nil {
		return "", err
	}
	if resp.Text == "" {
		return "", fmt.Errorf("provider %s returned empty response", provider.Name())
	}

	return resp.Text, nil
}
