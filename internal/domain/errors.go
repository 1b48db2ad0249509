package domain

import "errors"

var (
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrQuizNotFound indicates the quiz could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoQuestions is returned when a quiz has an empty question set; scoring
	// refuses such quizzes rather than dividing by zero.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrAlreadyCompleted is returned when a user re-submits a quiz they have a
	// completed attempt for. Credits are never awarded twice.
	ErrAlreadyCompleted = errors.New("quiz already completed")
	// ErrInvalidAnswers is returned for malformed answer sets (empty list,
	// unknown option letters).
	ErrInvalidAnswers = errors.New("invalid answer set")
	// ErrRewardNotFound is returned for missing or inactive rewards.
	ErrRewardNotFound = errors.New("reward not found")
	// ErrInsufficientCredits is returned when a spend would drive the balance
	// below zero. No transaction is recorded.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrAttemptNotFound is returned when resetting a quiz without a completed attempt.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrVideoNotFound indicates the video module could not be loaded.
	ErrVideoNotFound = errors.New("video not found")
	// ErrCheckpointNotFound indicates a submitted checkpoint ID is invalid.
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	// ErrScenarioNotFound indicates a practice scenario could not be loaded or
	// belongs to a different user.
	ErrScenarioNotFound = errors.New("scenario not found")
	// ErrSessionNotFound is returned when a session token does not resolve.
	ErrSessionNotFound = errors.New("session not found")
	// ErrForbidden is returned when a non-admin calls an admin-only operation.
	ErrForbidden = errors.New("forbidden")
)
