package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chathistory/internal/domain/models"
	"chathistory/internal/domain/services"
	"chathistory/internal/httputil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubTurnService returns a scripted result or error
type stubTurnService struct {
	result  *services.TurnResult
	err     error
	lastReq *services.TurnRequest
}

func (s *stubTurnService) HandleTurn(ctx context.Context, principal services.Principal, req *services.TurnRequest) (*services.TurnResult, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// stubIdentityService returns a scripted user or error
type stubIdentityService struct {
	user *models.User
	err  error
}

func (s *stubIdentityService) ResolveUser(ctx context.Context, email, displayName string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubIdentityService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

// stubConversationService answers each method from scripted fields
type stubConversationService struct {
	conv      *models.Conversation
	convs     []models.Conversation
	msg       *models.Message
	msgs      []models.Message
	deleted   int64
	err       error
	deletedID string
}

func (s *stubConversationService) ResolveConversation(ctx context.Context, user *models.User, conversationID string) (*models.Conversation, error) {
	return s.conv, s.err
}

func (s *stubConversationService) MaybeSetTitle(ctx context.Context, conv *models.Conversation, firstMessage string) error {
	return s.err
}

func (s *stubConversationService) CreateConversation(ctx context.Context, req *services.CreateConversationRequest) (*models.Conversation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.conv, nil
}

func (s *stubConversationService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.convs, nil
}

func (s *stubConversationService) DeleteConversation(ctx context.Context, conversationID string) error {
	s.deletedID = conversationID
	return s.err
}

func (s *stubConversationService) AddMessage(ctx context.Context, conversationID string, req *services.AddMessageRequest) (*models.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.msg, nil
}

func (s *stubConversationService) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.msgs, nil
}

func (s *stubConversationService) ClearMessages(ctx context.Context, conversationID string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.deleted, nil
}

// doRequest routes a request through a mux so path values resolve
func doRequest(t *testing.T, mux *http.ServeMux, method, target, body string, principal *services.Principal) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if principal != nil {
		req = httputil.WithPrincipal(req, *principal)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response body: %v (body %q)", err, rec.Body.String())
	}
}

func errorDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body["error"]
}
