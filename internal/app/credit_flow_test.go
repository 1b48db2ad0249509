package app

import (
	"context"
	"testing"

	"learnquest-service/internal/domain"
	"learnquest-service/internal/infra/memory"
	"learnquest-service/internal/llm"
)

// requireBalanceMatchesLedger asserts the drift invariant: the user's balance
// always equals the signed sum of their ledger entries.
func requireBalanceMatchesLedger(t *testing.T, store *memory.Store, userID int64, stage string) int {
	t.Helper()
	ctx := context.Background()
	user, err := store.Users().Get(ctx, userID)
	if err != nil {
		t.Fatalf("%s: get user: %v", stage, err)
	}
	txs, err := store.Transactions(ctx, userID)
	if err != nil {
		t.Fatalf("%s: transactions: %v", stage, err)
	}
	sum := 0
	for _, tx := range txs {
		sum += tx.Amount
	}
	if user.Credits != sum {
		t.Fatalf("%s: balance %d drifted from ledger sum %d over %d entries", stage, user.Credits, sum, len(txs))
	}
	return user.Credits
}

func TestBalanceEqualsLedgerSumAcrossSettlements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := f.store
	userID := f.user.ID

	requireBalanceMatchesLedger(t, store, userID, "before any settlement")

	// Earn: four of six correct on the 50-credit quiz, floor to 33.
	ids := f.questionIDs(t)
	result, err := f.quizzes.Submit(ctx, userID, f.quiz.ID, []domain.AnswerSubmission{
		{QuestionID: ids[0], Selected: domain.OptionA},
		{QuestionID: ids[1], Selected: domain.OptionB},
		{QuestionID: ids[2], Selected: domain.OptionC},
		{QuestionID: ids[3], Selected: domain.OptionD},
		{QuestionID: ids[4], Selected: domain.OptionB},
		{QuestionID: ids[5], Selected: domain.OptionC},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.CreditsEarned != 33 {
		t.Fatalf("expected 33 credits earned, got %d", result.CreditsEarned)
	}
	if got := requireBalanceMatchesLedger(t, store, userID, "after quiz"); got != 33 {
		t.Fatalf("expected balance 33 after quiz, got %d", got)
	}

	// Bonus: answer every checkpoint of a two-checkpoint video correctly.
	videos := NewVideoService(store.Videos(), store, nil)
	video := store.AddVideo(domain.Video{Title: "Addition Basics", Duration: 60, Active: true}, []domain.Checkpoint{
		{PauseAt: 20, Prompt: "2+2?", CorrectOption: domain.OptionB},
		{PauseAt: 40, Prompt: "3+5?", CorrectOption: domain.OptionA},
	})
	checkpoints, err := store.Videos().Checkpoints(ctx, video.ID)
	if err != nil {
		t.Fatalf("checkpoints: %v", err)
	}
	if _, err := videos.AnswerCheckpoint(ctx, userID, video.ID, checkpoints[0].ID, domain.OptionB); err != nil {
		t.Fatalf("answer first checkpoint: %v", err)
	}
	if _, err := videos.AnswerCheckpoint(ctx, userID, video.ID, checkpoints[1].ID, domain.OptionA); err != nil {
		t.Fatalf("answer second checkpoint: %v", err)
	}
	if got := requireBalanceMatchesLedger(t, store, userID, "after video bonus"); got != 53 {
		t.Fatalf("expected balance 53 after video bonus, got %d", got)
	}

	// Bonus: complete a practice scenario.
	practice := NewPracticeService(store, llm.NewScripted(), store, nil)
	scenario, err := practice.Start(ctx, userID, "anatomy", "")
	if err != nil {
		t.Fatalf("start scenario: %v", err)
	}
	if _, err := practice.Complete(ctx, userID, scenario.ID, 90); err != nil {
		t.Fatalf("complete scenario: %v", err)
	}
	if got := requireBalanceMatchesLedger(t, store, userID, "after scenario bonus"); got != 63 {
		t.Fatalf("expected balance 63 after scenario bonus, got %d", got)
	}

	// Spend: redeem a reward.
	rewards := NewRewardsService(store.Rewards(), store, store.Users(), nil, nil)
	reward := store.AddReward(domain.Reward{Name: "Coffee Voucher", Category: "food", CreditCost: 30, Active: true})
	if _, err := rewards.Redeem(ctx, userID, reward.ID); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if got := requireBalanceMatchesLedger(t, store, userID, "after redemption"); got != 33 {
		t.Fatalf("expected balance 33 after redemption, got %d", got)
	}

	txs, _ := store.Transactions(ctx, userID)
	if len(txs) != 4 {
		t.Fatalf("expected 4 ledger entries, got %+v", txs)
	}
}
