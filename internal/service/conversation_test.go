package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"chathistory/internal/domain"
	"chathistory/internal/domain/models"
	"chathistory/internal/domain/services"
)

func newConversationService(convRepo *fakeConvRepo, msgRepo *fakeMsgRepo) services.ConversationService {
	return NewConversationService(convRepo, msgRepo, fakeTxManager{}, testLogger())
}

// TestResolveConversation_ExistingOwned tests that a valid owned id returns
// the existing conversation without creating a new one
func TestResolveConversation_ExistingOwned(t *testing.T) {
	convRepo := newFakeConvRepo()
	svc := newConversationService(convRepo, newFakeMsgRepo())
	user := &models.User{ID: "user-1", Email: "a@example.com"}

	existing := &models.Conversation{UserID: user.ID, Title: models.DefaultConversationTitle}
	if err := convRepo.Create(context.Background(), existing); err != nil {
		t.Fatalf("setup create failed: %v", err)
	}

	conv, err := svc.ResolveConversation(context.Background(), user, existing.ID)
	if err != nil {
		t.Fatalf("ResolveConversation failed: %v", err)
	}
	if conv.ID != existing.ID {
		t.Errorf("expected conversation %s, got %s", existing.ID, conv.ID)
	}
	if len(convRepo.convs) != 1 {
		t.Errorf("expected no new conversation, have %d", len(convRepo.convs))
	}
}

// TestResolveConversation_UnknownID tests the permissive fallthrough: an
// unknown id silently yields a fresh conversation
func TestResolveConversation_UnknownID(t *testing.T) {
	convRepo := newFakeConvRepo()
	svc := newConversationService(convRepo, newFakeMsgRepo())
	user := &models.User{ID: "user-1", Email: "a@example.com"}

	conv, err := svc.ResolveConversation(context.Background(), user, uuid.NewString())
	if err != nil {
		t.Fatalf("ResolveConversation failed: %v", err)
	}
	if conv.ID == "" {
		t.Fatal("expected a created conversation")
	}
	if conv.UserID != user.ID {
		t.Errorf("expected owner %s, got %s", user.ID, conv.UserID)
	}
	if conv.Title != models.DefaultConversationTitle {
		t.Errorf("expected default title, got %q", conv.Title)
	}
}

// TestResolveConversation_MalformedID tests that a non-uuid id is treated
// like an absent one, never reaching the store
func TestResolveConversation_MalformedID(t *testing.T) {
	convRepo := newFakeConvRepo()
	svc := newConversationService(convRepo, newFakeMsgRepo())
	user := &models.User{ID: "user-1", Email: "a@example.com"}

	conv, err := svc.ResolveConversation(context.Background(), user, "not-a-uuid")
	if err != nil {
		t.Fatalf("ResolveConversation failed: %v", err)
	}
	if conv.Title != models.DefaultConversationTitle {
		t.Errorf("expected a fresh conversation, got %q", conv.Title)
	}
	if len(convRepo.convs) != 1 {
		t.Errorf("expected exactly the created conversation, have %d", len(convRepo.convs))
	}
}

// TestResolveConversation_ForeignOwner tests that someone else's
// conversation id falls through to creation instead of failing or leaking
func TestResolveConversation_ForeignOwner(t *testing.T) {
	convRepo := newFakeConvRepo()
	svc := newConversationService(convRepo, newFakeMsgRepo())

	foreign := &models.Conversation{UserID: "user-2", Title: "Theirs"}
	if err := convRepo.Create(context.Background(), foreign); err != nil {
		t.Fatalf("setup create failed: %v", err)
	}

	user := &models.User{ID: "user-1", Email: "a@example.com"}
	conv, err := svc.ResolveConversation(context.Background(), user, foreign.ID)
	if err != nil {
		t.Fatalf("ResolveConversation failed: %v", err)
	}
	if conv.ID == foreign.ID {
		t.Error("foreign conversation must not be returned")
	}
	if conv.UserID != user.ID {
		t.Errorf("expected owner %s, got %s", user.ID, conv.UserID)
	}
}

// TestMaybeSetTitle tests the title rule: applied once while the title is
// the default placeholder, stable afterwards
func TestMaybeSetTitle(t *testing.T) {
	convRepo := newFakeConvRepo()
	svc := newConversationService(convRepo, newFakeMsgRepo())

	conv := &models.Conversation{UserID: "user-1", Title: models.DefaultConversationTitle}
	if err := convRepo.Create(context.Background(), conv); err != nil {
		t.Fatalf("setup create failed: %v", err)
	}

	if err := svc.MaybeSetTitle(context.Background(), conv, "Tell me about oceans"); err != nil {
		t.Fatalf("MaybeSetTitle failed: %v", err)
	}
	if conv.Title != "Tell me about oceans..." {
		t.Errorf("expected %q, got %q", "Tell me about oceans...", conv.Title)
	}

	// Second turn must not retitle, but still bumps recency
	before := convRepo.convs[conv.ID].UpdatedAt
	if err := svc.MaybeSetTitle(context.Background(), conv, "And lakes?"); err != nil {
		t.Fatalf("second MaybeSetTitle failed: %v", err)
	}
	if conv.Title != "Tell me about oceans..." {
		t.Errorf("title changed on second turn: %q", conv.Title)
	}
	if !convRepo.convs[conv.ID].UpdatedAt.After(before) {
		t.Error("updated_at must advance when the title is already set")
	}
}

// TestTitleFromMessage tests the 50-character truncation boundary
func TestTitleFromMessage(t *testing.T) {
	long := strings.Repeat("a", 80)
	title := TitleFromMessage(long)
	if title != strings.Repeat("a", 50)+"..." {
		t.Errorf("expected 50 chars plus ellipsis, got %q (len %d)", title, len(title))
	}

	short := TitleFromMessage("hi")
	if short != "hi..." {
		t.Errorf("expected %q, got %q", "hi...", short)
	}

	// Truncation must not split multi-byte runes
	wide := strings.Repeat("日", 60)
	wideTitle := TitleFromMessage(wide)
	if wideTitle != strings.Repeat("日", 50)+"..." {
		t.Errorf("rune-unsafe truncation: %q", wideTitle)
	}
}

// TestCreateConversation_DefaultTitle tests explicit creation without a
// title
func TestCreateConversation_DefaultTitle(t *testing.T) {
	svc := newConversationService(newFakeConvRepo(), newFakeMsgRepo())

	conv, err := svc.CreateConversation(context.Background(), &services.CreateConversationRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}
	if conv.Title != models.DefaultConversationTitle {
		t.Errorf("expected default title, got %q", conv.Title)
	}
	if conv.Messages == nil || len(conv.Messages) != 0 {
		t.Errorf("expected empty messages array, got %v", conv.Messages)
	}
}

// TestCreateConversation_MissingUserID tests the InvalidInput contract
func TestCreateConversation_MissingUserID(t *testing.T) {
	svc := newConversationService(newFakeConvRepo(), newFakeMsgRepo())

	_, err := svc.CreateConversation(context.Background(), &services.CreateConversationRequest{Title: "untitled"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// TestDeleteConversation_Cascade tests that deleting a conversation removes
// every one of its messages
func TestDeleteConversation_Cascade(t *testing.T) {
	convRepo := newFakeConvRepo()
	msgRepo := newFakeMsgRepo()
	svc := newConversationService(convRepo, msgRepo)

	conv := &models.Conversation{UserID: "user-1", Title: "doomed"}
	if err := convRepo.Create(context.Background(), conv); err != nil {
		t.Fatalf("setup create failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		msg := &models.Message{ConversationID: conv.ID, Role: models.RoleUser, Content: "x"}
		if err := msgRepo.Create(context.Background(), msg); err != nil {
			t.Fatalf("setup message failed: %v", err)
		}
	}

	if err := svc.DeleteConversation(context.Background(), conv.ID); err != nil {
		t.Fatalf("DeleteConversation failed: %v", err)
	}

	remaining, err := msgRepo.ListByConversation(context.Background(), conv.ID)
	if err != nil {
		t.Fatalf("ListByConversation failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected 0 messages after cascade, got %d", len(remaining))
	}
}

// TestDeleteConversation_NotFound tests deleting a nonexistent id
func TestDeleteConversation_NotFound(t *testing.T) {
	svc := newConversationService(newFakeConvRepo(), newFakeMsgRepo())

	err := svc.DeleteConversation(context.Background(), "no-such-id")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestAddMessage_UnknownRole tests role validation on explicit message
// appends
func TestAddMessage_UnknownRole(t *testing.T) {
	convRepo := newFakeConvRepo()
	svc := newConversationService(convRepo, newFakeMsgRepo())

	conv := &models.Conversation{UserID: "user-1", Title: "t"}
	if err := convRepo.Create(context.Background(), conv); err != nil {
		t.Fatalf("setup create failed: %v", err)
	}

	_, err := svc.AddMessage(context.Background(), conv.ID, &services.AddMessageRequest{Role: "system", Content: "hi"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// TestAddMessage_ConversationNotFound tests the 404 contract
func TestAddMessage_ConversationNotFound(t *testing.T) {
	svc := newConversationService(newFakeConvRepo(), newFakeMsgRepo())

	_, err := svc.AddMessage(context.Background(), "no-such-id", &services.AddMessageRequest{
		Role:    models.RoleUser,
		Content: "hi",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestClearMessages_Count tests the deleted-count result
func TestClearMessages_Count(t *testing.T) {
	convRepo := newFakeConvRepo()
	msgRepo := newFakeMsgRepo()
	svc := newConversationService(convRepo, msgRepo)

	conv := &models.Conversation{UserID: "user-1", Title: "t"}
	if err := convRepo.Create(context.Background(), conv); err != nil {
		t.Fatalf("setup create failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		msg := &models.Message{ConversationID: conv.ID, Role: models.RoleUser, Content: "x"}
		if err := msgRepo.Create(context.Background(), msg); err != nil {
			t.Fatalf("setup message failed: %v", err)
		}
	}

	deleted, err := svc.ClearMessages(context.Background(), conv.ID)
	if err != nil {
		t.Fatalf("ClearMessages failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}
}
