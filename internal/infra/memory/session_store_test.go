package memory

import (
	"context"
	"testing"
	"time"

	"learnquest-service/internal/domain"
)

func TestSessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(time.Hour)
	now := time.Now()
	store.clock = func() time.Time { return now }

	session := domain.Session{Token: "tok", UserID: 1, Role: domain.RoleUser, CreatedAt: now}
	if err := store.Put(ctx, session); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := store.Get(ctx, "tok")
	if err != nil || !ok {
		t.Fatalf("expected session, ok=%v err=%v", ok, err)
	}
	if got.UserID != 1 {
		t.Fatalf("unexpected session %+v", got)
	}

	now = now.Add(2 * time.Hour)
	if _, ok, _ := store.Get(ctx, "tok"); ok {
		t.Fatal("expected expired session to be gone")
	}
}

func TestSessionStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(time.Hour)
	if err := store.Put(ctx, domain.Session{Token: "tok", UserID: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "tok"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "tok"); ok {
		t.Fatal("expected session removed")
	}
	// Deleting an unknown token is a no-op.
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}
