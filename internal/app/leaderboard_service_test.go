package app

import (
	"context"
	"testing"
	"time"

	"learnquest-service/internal/domain"
	"learnquest-service/internal/infra/memory"
)

func seedStandings(t *testing.T) (*memory.Store, []domain.User) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	names := []string{"Alice", "Bob", "Carol"}
	users := make([]domain.User, len(names))
	for i, name := range names {
		user, err := store.Users().UpsertByName(ctx, name)
		if err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
		users[i] = user
	}
	quiz1 := store.AddQuiz(domain.Quiz{Title: "One"}, []domain.Question{{Prompt: "q", CorrectOption: domain.OptionA}})
	quiz2 := store.AddQuiz(domain.Quiz{Title: "Two"}, []domain.Question{{Prompt: "q", CorrectOption: domain.OptionA}})

	settle := func(userID, quizID int64, score int) {
		if _, err := store.RecordSettlement(ctx, domain.Settlement{UserID: userID, QuizID: quizID, Score: score, TotalQuestions: score}); err != nil {
			t.Fatalf("settle: %v", err)
		}
	}
	// Bob 30; Alice and Carol tie at 10.
	settle(users[1].ID, quiz1.ID, 20)
	settle(users[1].ID, quiz2.ID, 10)
	settle(users[0].ID, quiz1.ID, 10)
	settle(users[2].ID, quiz1.ID, 10)
	return store, users
}

func TestTopNAssignsRanksAndBreaksTies(t *testing.T) {
	store, users := seedStandings(t)
	svc := NewLeaderboardService(store, nil, 10, nil)

	board, err := svc.TopN(context.Background(), 10)
	if err != nil {
		t.Fatalf("topn: %v", err)
	}
	if len(board.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(board.Rows))
	}
	want := []struct {
		userID int64
		score  int
	}{
		{users[1].ID, 30},
		{users[0].ID, 10}, // tie broken by ascending user id
		{users[2].ID, 10},
	}
	for i, w := range want {
		row := board.Rows[i]
		if row.Rank != i+1 || row.UserID != w.userID || row.TotalScore != w.score {
			t.Fatalf("row %d: got %+v, want user %d score %d", i, row, w.userID, w.score)
		}
	}
	if board.UpdatedAt.IsZero() {
		t.Fatal("expected snapshot timestamp")
	}
}

func TestTopNServesFromSnapshotCache(t *testing.T) {
	store, _ := seedStandings(t)
	cache := memory.NewSnapshotCache(time.Minute)
	svc := NewLeaderboardService(store, cache, 10, nil)
	ctx := context.Background()

	first, err := svc.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("topn: %v", err)
	}

	// A settlement bypassing Refresh is invisible until the snapshot expires.
	extra, _ := store.Users().UpsertByName(ctx, "Dave")
	quiz := store.AddQuiz(domain.Quiz{Title: "Three"}, []domain.Question{{Prompt: "q", CorrectOption: domain.OptionA}})
	if _, err := store.RecordSettlement(ctx, domain.Settlement{UserID: extra.ID, QuizID: quiz.ID, Score: 99, TotalQuestions: 99}); err != nil {
		t.Fatalf("settle: %v", err)
	}

	second, err := svc.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("topn: %v", err)
	}
	if len(second.Rows) != len(first.Rows) {
		t.Fatalf("expected cached snapshot, got %d rows", len(second.Rows))
	}

	svc.Refresh(ctx)
	third, err := svc.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("topn: %v", err)
	}
	if len(third.Rows) != 4 || third.Rows[0].UserID != extra.ID {
		t.Fatalf("expected refreshed standings led by Dave, got %+v", third.Rows)
	}
}

func TestSubscribeReceivesPrimedAndRefreshedSnapshots(t *testing.T) {
	store, users := seedStandings(t)
	svc := NewLeaderboardService(store, nil, 10, nil)
	ctx := context.Background()

	updates, cancel, err := svc.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	select {
	case board := <-updates:
		if len(board.Rows) != 3 || board.Rows[0].UserID != users[1].ID {
			t.Fatalf("unexpected primed snapshot %+v", board.Rows)
		}
	case <-time.After(time.Second):
		t.Fatal("expected primed snapshot")
	}

	quiz := store.AddQuiz(domain.Quiz{Title: "Three"}, []domain.Question{{Prompt: "q", CorrectOption: domain.OptionA}})
	if _, err := store.RecordSettlement(ctx, domain.Settlement{UserID: users[2].ID, QuizID: quiz.ID, Score: 50, TotalQuestions: 50}); err != nil {
		t.Fatalf("settle: %v", err)
	}
	svc.Refresh(ctx)

	select {
	case board := <-updates:
		if board.Rows[0].UserID != users[2].ID || board.Rows[0].TotalScore != 60 {
			t.Fatalf("expected Carol leading with 60, got %+v", board.Rows)
		}
	case <-time.After(time.Second):
		t.Fatal("expected refreshed snapshot")
	}
}

func TestCancelUnsubscribes(t *testing.T) {
	store, _ := seedStandings(t)
	svc := NewLeaderboardService(store, nil, 10, nil)

	updates, cancel, err := svc.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	<-updates
	cancel()
	cancel() // idempotent

	if _, ok := <-updates; ok {
		t.Fatal("expected channel closed after cancel")
	}
	// Refresh after cancel must not panic on the closed channel.
	svc.Refresh(context.Background())
}
