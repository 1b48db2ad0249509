package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"learnquest-service/internal/domain"
)

type countingLoader struct {
	key   domain.AnswerKey
	err   error
	calls int
}

func (l *countingLoader) AnswerKey(_ context.Context, quizID int64) (domain.AnswerKey, error) {
	l.calls++
	if l.err != nil {
		return domain.AnswerKey{}, l.err
	}
	if quizID != l.key.QuizID {
		return domain.AnswerKey{}, domain.ErrQuizNotFound
	}
	return l.key, nil
}

func sampleKey() domain.AnswerKey {
	return domain.AnswerKey{
		QuizID: 1,
		Correct: map[int64]domain.OptionLetter{
			10: domain.OptionA,
			11: domain.OptionC,
		},
		Categories: map[int64]string{
			10: "anatomy",
			11: "pharmacology",
		},
	}
}

func TestAnswerKeyCacheLoadsOnce(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{key: sampleKey()}
	cache := NewAnswerKeyCache(loader, time.Minute)

	for i := 0; i < 3; i++ {
		key, err := cache.AnswerKey(ctx, 1)
		if err != nil {
			t.Fatalf("answer key: %v", err)
		}
		if key.Total() != 2 {
			t.Fatalf("expected 2 questions, got %d", key.Total())
		}
		if key.Correct[11] != domain.OptionC {
			t.Fatalf("expected C for question 11, got %q", key.Correct[11])
		}
	}
	if loader.calls != 1 {
		t.Fatalf("expected a single loader call, got %d", loader.calls)
	}
}

func TestAnswerKeyCacheExpires(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{key: sampleKey()}
	cache := NewAnswerKeyCache(loader, time.Minute)

	now := time.Now()
	cache.clock = func() time.Time { return now }

	if _, err := cache.AnswerKey(ctx, 1); err != nil {
		t.Fatalf("answer key: %v", err)
	}
	// Jitter stretches the TTL by at most 10%, so two minutes is past expiry.
	now = now.Add(2 * time.Minute)
	if _, err := cache.AnswerKey(ctx, 1); err != nil {
		t.Fatalf("answer key after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, got %d calls", loader.calls)
	}
}

func TestAnswerKeyCachePropagatesLoaderError(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{err: domain.ErrQuizNotFound}
	cache := NewAnswerKeyCache(loader, time.Minute)

	_, err := cache.AnswerKey(ctx, 7)
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
	// Errors are not cached.
	if _, err := cache.AnswerKey(ctx, 7); err == nil {
		t.Fatal("expected error on retry")
	}
	if loader.calls != 2 {
		t.Fatalf("expected loader retry, got %d calls", loader.calls)
	}
}
