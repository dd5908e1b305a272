package service

import (
	"context"
	"errors"
	"testing"

	"chathistory/internal/domain"
)

// TestResolveUser_CreatesOnFirstSight tests that an unseen email produces
// exactly one new user with the given display name
func TestResolveUser_CreatesOnFirstSight(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewIdentityService(repo, testLogger())

	user, err := svc.ResolveUser(context.Background(), "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("ResolveUser failed: %v", err)
	}

	if user.ID == "" {
		t.Error("expected created user to have an id")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected email alice@example.com, got %s", user.Email)
	}
	if user.Name == nil || *user.Name != "Alice" {
		t.Errorf("expected name Alice, got %v", user.Name)
	}
	if len(repo.users) != 1 {
		t.Errorf("expected 1 user row, got %d", len(repo.users))
	}
}

// TestResolveUser_Idempotent tests that resolving the same email twice
// yields the same user id and never a duplicate row
func TestResolveUser_Idempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewIdentityService(repo, testLogger())

	first, err := svc.ResolveUser(context.Background(), "bob@example.com", "Bob")
	if err != nil {
		t.Fatalf("first ResolveUser failed: %v", err)
	}

	second, err := svc.ResolveUser(context.Background(), "bob@example.com", "Bob")
	if err != nil {
		t.Fatalf("second ResolveUser failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected same user id, got %s and %s", first.ID, second.ID)
	}
	if len(repo.users) != 1 {
		t.Errorf("expected 1 user row, got %d", len(repo.users))
	}
}

// TestResolveUser_EmptyEmail tests the InvalidInput contract
func TestResolveUser_EmptyEmail(t *testing.T) {
	svc := NewIdentityService(newFakeUserRepo(), testLogger())

	_, err := svc.ResolveUser(context.Background(), "", "Nameless")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// TestResolveUser_LostInsertRace tests that a unique-violation on create
// falls back to re-fetching the winner's row
func TestResolveUser_LostInsertRace(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewIdentityService(repo, testLogger())

	// Another request wins the insert between our lookup and create
	winner, err := svc.ResolveUser(context.Background(), "carol@example.com", "Carol")
	if err != nil {
		t.Fatalf("setup ResolveUser failed: %v", err)
	}
	repo.missNextGet = true
	repo.forceConflict = true

	user, err := svc.ResolveUser(context.Background(), "carol@example.com", "Carol")
	if err != nil {
		t.Fatalf("ResolveUser after race failed: %v", err)
	}
	if user.ID != winner.ID {
		t.Errorf("expected winner id %s, got %s", winner.ID, user.ID)
	}
}

// TestResolveUser_NoDisplayName tests that a missing display name stores a
// null name
func TestResolveUser_NoDisplayName(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewIdentityService(repo, testLogger())

	user, err := svc.ResolveUser(context.Background(), "dave@example.com", "")
	if err != nil {
		t.Fatalf("ResolveUser failed: %v", err)
	}
	if user.Name != nil {
		t.Errorf("expected nil name, got %q", *user.Name)
	}
}
