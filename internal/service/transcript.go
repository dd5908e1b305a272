package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"chathistory/internal/domain"
	"chathistory/internal/domain/models"
	"chathistory/internal/domain/services"
	"chathistory/internal/domain/services/llm"
)

// FormatHistory converts stored message rows into the ordered transcript
// for a model call. Order follows the input exactly; the external model is
// sensitive to turn order, so nothing here re-sorts or deduplicates.
func FormatHistory(messages []models.Message) []llm.Message {
	out := make([]llm.Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, llm.Message{
			Role: msg.Role,
			Text: msg.Content,
		})
	}
	return out
}

// transcriptRoles maps the role vocabularies clients are known to send to
// the stored one. Gemini-era clients say "model" where we store
// "assistant".
var transcriptRoles = map[string]string{
	models.RoleUser:      models.RoleUser,
	models.RoleAssistant: models.RoleAssistant,
	"model":              models.RoleAssistant,
}

// NormalizeTranscript converts client-supplied transient history into the
// canonical transcript shape. Entries may carry their text under "content",
// "text", or "parts"; anything without extractable text or with an unknown
// role fails with domain.ErrMalformedHistory.
func NormalizeTranscript(entries []services.TranscriptEntry) ([]llm.Message, error) {
	out := make([]llm.Message, 0, len(entries))
	for i, entry := range entries {
		role, ok := transcriptRoles[entry.Role]
		if !ok {
			return nil, fmt.Errorf("%w: entry %d has unknown role %q", domain.ErrMalformedHistory, i, entry.Role)
		}

		text, ok := extractText(entry.Content)
		if !ok {
			text, ok = extractText(entry.Text)
		}
		if !ok {
			text, ok = extractText(entry.Parts)
		}
		if !ok {
			return nil, fmt.Errorf("%w: entry %d has no extractable text", domain.ErrMalformedHistory, i)
		}

		out = append(out, llm.Message{Role: role, Text: text})
	}
	return out, nil
}

// extractText pulls the text out of one transcript field, accepting a bare
// string, a list of strings, or part objects with a "text" field.
func extractText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", false
		}
		return s, true
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		joined := strings.Join(list, "")
		if joined == "" {
			return "", false
		}
		return joined, true
	}

	type part struct {
		Text string `json:"text"`
	}

	var p part
	if err := json.Unmarshal(raw, &p); err == nil && p.Text != "" {
		return p.Text, true
	}

	var parts []part
	if err := json.Unmarshal(raw, &parts); err == nil {
		var b strings.Builder
		for _, p := range parts {
			b.WriteString(p.Text)
		}
		if b.Len() > 0 {
			return b.String(), true
		}
	}

	return "", false
}
