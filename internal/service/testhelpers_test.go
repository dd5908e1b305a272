package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chathistory/internal/domain"
	"chathistory/internal/domain/models"
	"chathistory/internal/domain/repositories"
	"chathistory/internal/domain/services/llm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	users   map[string]*models.User // keyed by email
	nextID  int
	failAll bool
	// forceConflict makes the next Create fail with ErrConflict, and
	// missNextGet makes the next GetByEmail miss; together they simulate a
	// lost insert race
	forceConflict bool
	missNextGet   bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if r.failAll {
		return fmt.Errorf("store unavailable")
	}
	if r.forceConflict {
		r.forceConflict = false
		return fmt.Errorf("user with email %s: %w", user.Email, domain.ErrConflict)
	}
	if _, exists := r.users[user.Email]; exists {
		return fmt.Errorf("user with email %s: %w", user.Email, domain.ErrConflict)
	}
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.Email] = &copied
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.failAll {
		return nil, fmt.Errorf("store unavailable")
	}
	if r.missNextGet {
		r.missNextGet = false
		return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
	}
	user, ok := r.users[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	for _, user := range r.users {
		if user.ID == userID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
}

// fakeConvRepo is an in-memory ConversationRepository
type fakeConvRepo struct {
	convs map[string]*models.Conversation
	clock time.Time
}

func newFakeConvRepo() *fakeConvRepo {
	return &fakeConvRepo{convs: make(map[string]*models.Conversation), clock: time.Now()}
}

// tick advances the fake clock so successive writes get distinct timestamps
func (r *fakeConvRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Millisecond)
	return r.clock
}

// Create assigns a real UUID; callers treat conversation ids as uuid-typed
func (r *fakeConvRepo) Create(ctx context.Context, conv *models.Conversation) error {
	conv.ID = uuid.NewString()
	conv.CreatedAt = r.tick()
	conv.UpdatedAt = conv.CreatedAt
	if conv.Messages == nil {
		conv.Messages = []models.Message{}
	}
	copied := *conv
	r.convs[conv.ID] = &copied
	return nil
}

func (r *fakeConvRepo) GetOwned(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	conv, ok := r.convs[conversationID]
	if !ok || conv.UserID != userID {
		return nil, fmt.Errorf("conversation: %w", domain.ErrNotFound)
	}
	copied := *conv
	copied.Messages = []models.Message{}
	return &copied, nil
}

func (r *fakeConvRepo) GetByID(ctx context.Context, conversationID string) (*models.Conversation, error) {
	conv, ok := r.convs[conversationID]
	if !ok {
		return nil, fmt.Errorf("conversation: %w", domain.ErrNotFound)
	}
	copied := *conv
	copied.Messages = []models.Message{}
	return &copied, nil
}

func (r *fakeConvRepo) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	out := []models.Conversation{}
	for _, conv := range r.convs {
		if conv.UserID == userID {
			copied := *conv
			copied.Messages = []models.Message{}
			out = append(out, copied)
		}
	}
	return out, nil
}

func (r *fakeConvRepo) UpdateTitle(ctx context.Context, conversationID, title string) error {
	conv, ok := r.convs[conversationID]
	if !ok {
		return fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
	}
	conv.Title = title
	conv.UpdatedAt = r.tick()
	return nil
}

func (r *fakeConvRepo) Touch(ctx context.Context, conversationID string) error {
	if conv, ok := r.convs[conversationID]; ok {
		conv.UpdatedAt = r.tick()
	}
	return nil
}

func (r *fakeConvRepo) Delete(ctx context.Context, conversationID string) error {
	if _, ok := r.convs[conversationID]; !ok {
		return fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
	}
	delete(r.convs, conversationID)
	return nil
}

// fakeMsgRepo is an in-memory MessageRepository preserving insertion order
type fakeMsgRepo struct {
	msgs   []models.Message
	nextID int
	clock  time.Time
}

func newFakeMsgRepo() *fakeMsgRepo {
	return &fakeMsgRepo{clock: time.Now()}
}

func (r *fakeMsgRepo) Create(ctx context.Context, msg *models.Message) error {
	r.nextID++
	r.clock = r.clock.Add(time.Millisecond)
	msg.ID = fmt.Sprintf("msg-%d", r.nextID)
	msg.CreatedAt = r.clock
	r.msgs = append(r.msgs, *msg)
	return nil
}

func (r *fakeMsgRepo) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	out := []models.Message{}
	for _, msg := range r.msgs {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (r *fakeMsgRepo) DeleteByConversation(ctx context.Context, conversationID string) (int64, error) {
	var kept []models.Message
	var deleted int64
	for _, msg := range r.msgs {
		if msg.ConversationID == conversationID {
			deleted++
			continue
		}
		kept = append(kept, msg)
	}
	r.msgs = kept
	return deleted, nil
}

// fakeTxManager runs the function without a real transaction
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeProvider returns a scripted response and records the last request
type fakeProvider struct {
	response string
	err      error
	lastReq  *llm.GenerateRequest
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) GenerateResponse(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.GenerateResponse{Text: p.response, Model: req.Model}, nil
}

// fakeResolver hands out a single provider regardless of name
type fakeResolver struct {
	provider llm.LLMProvider
}

func (r *fakeResolver) GetProvider(name string) (llm.LLMProvider, error) {
	return r.provider, nil
}
