package app

import (
	"context"
	"time"

	"learnquest-service/internal/domain"
)

// UserStore handles account lookup and name-based login upserts.
type UserStore interface {
	UpsertByName(ctx context.Context, name string) (domain.User, error)
	Get(ctx context.Context, id int64) (domain.User, error)
}

// QuestionStore supplies quiz content (from cache/backing store).
type QuestionStore interface {
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error)
	Questions(ctx context.Context, quizID int64) ([]domain.Question, error)
	Sample(ctx context.Context, filter domain.QuestionFilter) ([]domain.Question, error)
}

// AnswerKeyRepository serves the scoring hot path: correct letters and
// categories per question, typically cached in front of the backing store.
type AnswerKeyRepository interface {
	AnswerKey(ctx context.Context, quizID int64) (domain.AnswerKey, error)
}

// AttemptLedger records scored submissions. RecordSettlement must apply the
// whole settlement atomically and fail with domain.ErrAlreadyCompleted when a
// completed attempt for the (user, quiz) pair already exists.
type AttemptLedger interface {
	HasCompleted(ctx context.Context, userID, quizID int64) (bool, error)
	RecordSettlement(ctx context.Context, s domain.Settlement) (domain.Attempt, error)
	History(ctx context.Context, userID int64) ([]domain.Attempt, error)
	DeleteCompleted(ctx context.Context, userID, quizID int64) error
}

// CreditLedger mutates user balances. Adjust applies the delta and appends a
// transaction record in one atomic step; spend-type deltas that would drive
// the balance negative fail with domain.ErrInsufficientCredits and record
// nothing.
type CreditLedger interface {
	Adjust(ctx context.Context, userID int64, delta int, typ domain.TransactionType, description string, relatedID int64) (newBalance int, err error)
	Transactions(ctx context.Context, userID int64) ([]domain.CreditTransaction, error)
}

// RewardStore serves the reward catalog and the redemption settlement. Redeem
// debits the user and inserts the pending redemption atomically.
type RewardStore interface {
	ListActive(ctx context.Context) ([]domain.Reward, error)
	Get(ctx context.Context, rewardID int64) (domain.Reward, error)
	Redeem(ctx context.Context, userID int64, reward domain.Reward, expiresAt time.Time) (domain.Redemption, int, error)
	Redemptions(ctx context.Context, userID int64) ([]domain.Redemption, error)
}

// LeaderboardSource computes the ranked view: summed attempt scores per user,
// descending, ties broken by ascending user id, zero-attempt users included.
type LeaderboardSource interface {
	TopN(ctx context.Context, limit int) ([]domain.LeaderboardRow, error)
}

// SnapshotCache holds short-lived leaderboard snapshots keyed by limit.
type SnapshotCache interface {
	Get(ctx context.Context, limit int) (domain.Leaderboard, bool)
	Set(ctx context.Context, limit int, lb domain.Leaderboard)
}

// VideoStore persists video modules, checkpoints, per-user progress and
// graded checkpoint answers. SaveCheckpointAnswer upserts by
// (user, checkpoint): tries accumulate and a correct answer never reverts.
// SaveCheckpointProgress records the checkpoint score and reports whether
// this call moved the user to all-correct; once complete the score is frozen
// and the transition can be observed at most once, even under concurrent
// callers.
type VideoStore interface {
	ListActive(ctx context.Context) ([]domain.Video, error)
	Get(ctx context.Context, videoID int64) (domain.Video, error)
	Checkpoints(ctx context.Context, videoID int64) ([]domain.Checkpoint, error)
	GetCheckpoint(ctx context.Context, checkpointID int64) (domain.Checkpoint, error)
	Progress(ctx context.Context, userID, videoID int64) (domain.VideoProgress, bool, error)
	SaveProgress(ctx context.Context, p domain.VideoProgress) (domain.VideoProgress, error)
	SaveCheckpointProgress(ctx context.Context, userID, videoID int64, score, total int) (bool, error)
	SaveCheckpointAnswer(ctx context.Context, a domain.CheckpointAnswer) (domain.CheckpointAnswer, error)
	CheckpointAnswers(ctx context.Context, userID, videoID int64) ([]domain.CheckpointAnswer, error)
}

// PracticeStore persists AI practice scenarios, their conversations and the
// per-category weak-area counters. WeakAreas returns rows ordered by
// incorrect ratio, worst first. CompleteScenario reports whether this call
// performed the not-completed to completed transition; concurrent callers
// see it at most once.
type PracticeStore interface {
	CreateScenario(ctx context.Context, s domain.Scenario) (domain.Scenario, error)
	Scenario(ctx context.Context, userID, scenarioID int64) (domain.Scenario, error)
	Scenarios(ctx context.Context, userID int64) ([]domain.Scenario, error)
	CompleteScenario(ctx context.Context, scenarioID int64, score int) (bool, error)
	AppendMessage(ctx context.Context, m domain.ScenarioMessage) (domain.ScenarioMessage, error)
	Messages(ctx context.Context, scenarioID int64) ([]domain.ScenarioMessage, error)
	WeakAreas(ctx context.Context, userID int64) ([]domain.WeakArea, error)
	TouchWeakArea(ctx context.Context, userID int64, category string) error
}

// SessionStore resolves opaque login tokens. Implementations own the TTL.
type SessionStore interface {
	Put(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, token string) (domain.Session, bool, error)
	Delete(ctx context.Context, token string) error
}
