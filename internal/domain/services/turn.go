package services

import (
	"context"
	"encoding/json"
)

// Principal is the authenticated identity a turn runs as, extracted from
// the verified session token.
type Principal struct {
	Email string
	Name  string
}

// TranscriptEntry is one client-supplied transient history entry. Content
// may arrive under several field names; normalization to a single canonical
// text field happens in exactly one place.
type TranscriptEntry struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content,omitempty"`
	Text    json.RawMessage `json:"text,omitempty"`
	Parts   json.RawMessage `json:"parts,omitempty"`
}

// TurnRequest is the DTO for one chat turn
type TurnRequest struct {
	Message        string            `json:"message"`
	ConversationID string            `json:"conversationId"`
	History        []TranscriptEntry `json:"history"`
}

// TurnResult is what a completed turn returns to the client
type TurnResult struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
}

// TurnService sequences one full request/response cycle: resolve identity,
// resolve conversation, persist the user message, invoke the external
// model, persist the assistant message, apply the title rule.
type TurnService interface {
	// HandleTurn runs one turn. A model failure surfaces as
	// domain.ErrUpstream; the already-persisted user message is not rolled
	// back, so callers must tolerate unpaired user messages in history.
	HandleTurn(ctx context.Context, principal Principal, req *TurnRequest) (*TurnResult, error)
}
