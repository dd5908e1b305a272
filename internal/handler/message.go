package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"chathistory/internal/domain"
	"chathistory/internal/domain/services"
	"chathistory/internal/httputil"
)

// MessageHandler handles per-conversation message HTTP requests
type MessageHandler struct {
	conversationService services.ConversationService
	logger              *slog.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(conversationService services.ConversationService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		conversationService: conversationService,
		logger:              logger,
	}
}

// AddMessage appends a message to a conversation
// POST /api/messages/{id}
func (h *MessageHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	var req services.AddMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Role == "" || req.Content == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Required fields are missing")
		return
	}

	msg, err := h.conversationService.AddMessage(r.Context(), conversationID, &req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, msg)
}

// ListMessages returns all messages for a conversation, oldest first
// GET /api/messages/{id}
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	msgs, err := h.conversationService.ListMessages(r.Context(), conversationID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, msgs)
}

// ClearMessages deletes all messages for a conversation
// DELETE /api/messages/{id}
func (h *MessageHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, ok := PathParam(w, r, "id", "Conversation ID")
	if !ok {
		return
	}

	deleted, err := h.conversationService.ClearMessages(r.Context(), conversationID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%d messages deleted", deleted),
	})
}
