package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"learnquest-service/internal/domain"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr), time.Hour)

	session := domain.Session{Token: "tok", UserID: 42, Role: domain.RoleAdmin, CreatedAt: time.Now().UTC()}
	if err := store.Put(ctx, session); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := store.Get(ctx, "tok")
	if err != nil || !ok {
		t.Fatalf("expected session, ok=%v err=%v", ok, err)
	}
	if got.UserID != 42 || got.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session %+v", got)
	}

	mr.FastForward(2 * time.Hour)
	if _, ok, err := store.Get(ctx, "tok"); err != nil || ok {
		t.Fatalf("expected expired session miss, ok=%v err=%v", ok, err)
	}
}

func TestSessionStoreMissAndDelete(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr), time.Hour)

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, domain.Session{Token: "tok", UserID: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "tok"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "tok"); ok {
		t.Fatal("expected session removed")
	}
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	cache := NewSnapshotCache(newClient(mr), 5*time.Second)

	if _, ok := cache.Get(ctx, 10); ok {
		t.Fatal("expected cold miss")
	}

	board := domain.Leaderboard{
		Rows:      []domain.LeaderboardRow{{Rank: 1, UserID: 2, Name: "Bob", TotalScore: 30}},
		UpdatedAt: time.Now().UTC(),
	}
	cache.Set(ctx, 10, board)

	got, ok := cache.Get(ctx, 10)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if len(got.Rows) != 1 || got.Rows[0].UserID != 2 || got.Rows[0].TotalScore != 30 {
		t.Fatalf("unexpected snapshot %+v", got)
	}
	// Snapshots are keyed by limit.
	if _, ok := cache.Get(ctx, 5); ok {
		t.Fatal("expected miss for a different limit")
	}

	mr.FastForward(10 * time.Second)
	if _, ok := cache.Get(ctx, 10); ok {
		t.Fatal("expected snapshot to expire")
	}
}
