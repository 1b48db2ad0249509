package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"learnquest-service/internal/domain"
	"learnquest-service/internal/infra/memory"
	"learnquest-service/internal/llm"
)

func newPracticeFixture(t *testing.T) (*memory.Store, *PracticeService, domain.User) {
	t.Helper()
	store := memory.NewStore()
	user, err := store.Users().UpsertByName(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return store, NewPracticeService(store, llm.NewScripted(), store, nil), user
}

// settleWithWeakness records a settlement whose wrong answers mark category
// as a weak area.
func settleWithWeakness(t *testing.T, store *memory.Store, userID int64, category string, incorrect, total int) {
	t.Helper()
	quiz := store.AddQuiz(domain.Quiz{Title: "Seed " + category}, []domain.Question{{Prompt: "q", CorrectOption: domain.OptionA}})
	_, err := store.RecordSettlement(context.Background(), domain.Settlement{
		UserID: userID, QuizID: quiz.ID, Score: total - incorrect, TotalQuestions: total,
		WeakAreas: map[string]domain.WeakAreaDelta{category: {Incorrect: incorrect, Total: total}},
	})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
}

func TestStartBiasesTowardWorstWeakArea(t *testing.T) {
	store, svc, user := newPracticeFixture(t)
	ctx := context.Background()
	settleWithWeakness(t, store, user.ID, "anatomy", 1, 4)      // ratio 0.25
	settleWithWeakness(t, store, user.ID, "pharmacology", 3, 4) // ratio 0.75

	scenario, err := svc.Start(ctx, user.ID, "", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if scenario.Category != "pharmacology" || scenario.TargetWeakArea != "pharmacology" {
		t.Fatalf("expected worst weak area targeted, got %+v", scenario)
	}
	if scenario.Difficulty != domain.DifficultyMedium {
		t.Fatalf("expected medium default, got %q", scenario.Difficulty)
	}
	if !strings.Contains(scenario.Text, "pharmacology") {
		t.Fatalf("expected scenario text to mention the category, got %q", scenario.Text)
	}
}

func TestStartExplicitCategorySkipsBias(t *testing.T) {
	store, svc, user := newPracticeFixture(t)
	settleWithWeakness(t, store, user.ID, "pharmacology", 3, 4)

	scenario, err := svc.Start(context.Background(), user.ID, "anatomy", domain.DifficultyHard)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if scenario.Category != "anatomy" || scenario.TargetWeakArea != "" {
		t.Fatalf("explicit category must win, got %+v", scenario)
	}
	if scenario.Difficulty != domain.DifficultyHard {
		t.Fatalf("expected hard, got %q", scenario.Difficulty)
	}
}

func TestSendAppendsBothTurns(t *testing.T) {
	_, svc, user := newPracticeFixture(t)
	ctx := context.Background()
	scenario, err := svc.Start(ctx, user.ID, "anatomy", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	msgs, err := svc.Send(ctx, user.ID, scenario.ID, "  The femur is in the leg.  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected user and assistant turns, got %d", len(msgs))
	}
	if msgs[0].Role != domain.ScenarioRoleUser || msgs[0].Body != "The femur is in the leg." {
		t.Fatalf("unexpected user turn %+v", msgs[0])
	}
	if msgs[1].Role != domain.ScenarioRoleAssistant || msgs[1].Body == "" {
		t.Fatalf("unexpected assistant turn %+v", msgs[1])
	}

	msgs, err = svc.Send(ctx, user.ID, scenario.ID, "Another question")
	if err != nil {
		t.Fatalf("second send: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("expected conversation of 4, got %d", len(msgs))
	}

	if _, err := svc.Send(ctx, user.ID, scenario.ID, "   "); !errors.Is(err, domain.ErrInvalidAnswers) {
		t.Fatalf("expected ErrInvalidAnswers for blank message, got %v", err)
	}
}

func TestMessagesRequireOwnership(t *testing.T) {
	store, svc, user := newPracticeFixture(t)
	ctx := context.Background()
	other, _ := store.Users().UpsertByName(ctx, "Bob")
	scenario, err := svc.Start(ctx, user.ID, "anatomy", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := svc.Messages(ctx, other.ID, scenario.ID); !errors.Is(err, domain.ErrScenarioNotFound) {
		t.Fatalf("expected ErrScenarioNotFound for foreign scenario, got %v", err)
	}
	if _, err := svc.Send(ctx, other.ID, scenario.ID, "hi"); !errors.Is(err, domain.ErrScenarioNotFound) {
		t.Fatalf("expected ErrScenarioNotFound on foreign send, got %v", err)
	}
}

func TestCompleteAwardsBonusOnce(t *testing.T) {
	store, svc, user := newPracticeFixture(t)
	ctx := context.Background()
	settleWithWeakness(t, store, user.ID, "anatomy", 2, 4)
	scenario, err := svc.Start(ctx, user.ID, "", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	before, _ := store.Users().Get(ctx, user.ID)
	bonus, err := svc.Complete(ctx, user.ID, scenario.ID, 90)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if bonus != 10 {
		t.Fatalf("expected bonus 10, got %d", bonus)
	}
	after, _ := store.Users().Get(ctx, user.ID)
	if after.Credits != before.Credits+10 {
		t.Fatalf("expected credit of 10, balance went %d -> %d", before.Credits, after.Credits)
	}

	// Second completion is a no-op.
	bonus, err = svc.Complete(ctx, user.ID, scenario.ID, 95)
	if err != nil || bonus != 0 {
		t.Fatalf("expected no-op, bonus=%d err=%v", bonus, err)
	}
	final, _ := store.Users().Get(ctx, user.ID)
	if final.Credits != after.Credits {
		t.Fatalf("no-op completion changed the balance to %d", final.Credits)
	}

	got, _ := store.Scenario(ctx, user.ID, scenario.ID)
	if !got.Completed || got.Score != 90 {
		t.Fatalf("first completion's score must stand, got %+v", got)
	}
}

// barrierPracticeStore releases Scenario reads together so concurrent
// completions all observe the scenario before any of them commits.
type barrierPracticeStore struct {
	PracticeStore
	barrier *sync.WaitGroup
}

func (b *barrierPracticeStore) Scenario(ctx context.Context, userID, scenarioID int64) (domain.Scenario, error) {
	b.barrier.Done()
	b.barrier.Wait()
	return b.PracticeStore.Scenario(ctx, userID, scenarioID)
}

func TestCompleteConcurrentCallsAwardBonusOnce(t *testing.T) {
	store, _, user := newPracticeFixture(t)
	ctx := context.Background()
	scenario, err := store.CreateScenario(ctx, domain.Scenario{UserID: user.ID, Text: "case"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	barrier := &sync.WaitGroup{}
	barrier.Add(2)
	svc := NewPracticeService(&barrierPracticeStore{PracticeStore: store, barrier: barrier}, llm.NewScripted(), store, nil)

	var wg sync.WaitGroup
	bonuses := make([]int, 2)
	errs := make([]error, 2)
	for i := range bonuses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bonuses[i], errs[i] = svc.Complete(ctx, user.ID, scenario.ID, 80)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("complete %d: %v", i, err)
		}
	}
	if total := bonuses[0] + bonuses[1]; total != 10 {
		t.Fatalf("completion bonus awarded more than once: total %d, want 10", total)
	}
	got, _ := store.Users().Get(ctx, user.ID)
	if got.Credits != 10 {
		t.Fatalf("expected balance 10, got %d", got.Credits)
	}
	txs, _ := store.Transactions(ctx, user.ID)
	if len(txs) != 1 {
		t.Fatalf("expected one bonus transaction, got %+v", txs)
	}
}
