package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"chathistory/internal/domain"
	"chathistory/internal/domain/services"
	"chathistory/internal/httputil"
)

// ConversationHandler handles conversation HTTP requests
type ConversationHandler struct {
	conversationService services.ConversationService
	identityService     services.IdentityService
	logger              *slog.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(
	conversationService services.ConversationService,
	identityService services.IdentityService,
	logger *slog.Logger,
) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		identityService:     identityService,
		logger:              logger,
	}
}

// CreateConversation explicitly creates a conversation for a user
// POST /api/conversation
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req services.CreateConversationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "UserId is required")
		return
	}

	conv, err := h.conversationService.CreateConversation(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, conv)
}

// ListHistory returns the session user's conversations with messages
// GET /api/history
func (h *ConversationHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.identityService.GetUserByEmail(r.Context(), principal.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		handleError(w, err)
		return
	}

	convs, err := h.conversationService.ListConversations(r.Context(), user.ID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, convs)
}

// ListHistoryByUser returns conversations for an explicit user id
// GET /api/history/{userId}
func (h *ConversationHandler) ListHistoryByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := PathParam(w, r, "userId", "UserId")
	if !ok {
		return
	}

	convs, err := h.conversationService.ListConversations(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, convs)
}

// DeleteConversation removes a conversation and its messages
// DELETE /api/conversations/{id}
func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	if err := h.conversationService.DeleteConversation(r.Context(), conversationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Conversation deleted successfully",
	})
}
