package handler

import (
	"log/slog"
	"net/http"

	"chathistory/internal/domain/services"
	"chathistory/internal/httputil"
)

// ChatHandler handles chat turn HTTP requests.
// Handlers only communicate with services, never repositories.
type ChatHandler struct {
	turnService services.TurnService
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(turnService services.TurnService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		turnService: turnService,
		logger:      logger,
	}
}

// HandleTurn runs one chat turn for the session user
// POST /api/chat
func (h *ChatHandler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	principal, ok := httputil.GetPrincipal(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req services.TurnRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Message == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Message is required")
		return
	}

	result, err := h.turnService.HandleTurn(r.Context(), principal, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
