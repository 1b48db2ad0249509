package domain

import "time"

// Role distinguishes regular users from admins on protected operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// OptionLetter is the single-letter answer enum. Comparison is case-sensitive.
type OptionLetter string

const (
	OptionA OptionLetter = "A"
	OptionB OptionLetter = "B"
	OptionC OptionLetter = "C"
	OptionD OptionLetter = "D"
)

// Valid reports whether the letter is one of A-D.
func (o OptionLetter) Valid() bool {
	switch o {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// User is a platform account. Credits never go negative.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Role         Role      `json:"role"`
	Credits      int       `json:"credits"`
	CreatedAt    time.Time `json:"createdAt"`
	LastSignedIn time.Time `json:"lastSignedIn"`
}

// Quiz is a named question set with a fixed credit reward. Immutable after seeding.
type Quiz struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	CreditsReward int       `json:"creditsReward"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Difficulty grades question and scenario difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question belongs to exactly one quiz and has exactly one correct option.
type Question struct {
	ID            int64        `json:"id"`
	QuizID        int64        `json:"quizId"`
	Prompt        string       `json:"prompt"`
	OptionA       string       `json:"optionA"`
	OptionB       string       `json:"optionB"`
	OptionC       string       `json:"optionC"`
	OptionD       string       `json:"optionD"`
	CorrectOption OptionLetter `json:"correctOption,omitempty"`
	Difficulty    Difficulty   `json:"difficulty"`
	Category      string       `json:"category,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// Public strips the answer key. Correct answers must never be serialized to
// callers that have not completed the question.
func (q Question) Public() Question {
	q.CorrectOption = ""
	return q
}

// QuestionFilter narrows random question sampling.
type QuestionFilter struct {
	Category   string
	Difficulty Difficulty
	Limit      int
}

// AnswerKey is the scoring view of a quiz: per-question correct letters and
// categories, without prompts or option texts.
type AnswerKey struct {
	QuizID     int64
	Correct    map[int64]OptionLetter
	Categories map[int64]string
}

// Total is the number of questions in the quiz the key was built from.
func (k AnswerKey) Total() int { return len(k.Correct) }

// Attempt is one scored submission of a quiz by one user.
type Attempt struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	QuizID         int64     `json:"quizId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Completed      bool      `json:"completed"`
	CreditsEarned  int       `json:"creditsEarned"`
	CompletedAt    time.Time `json:"completedAt"`
}

// Answer records one graded response inside an attempt. Immutable once written.
type Answer struct {
	ID         int64        `json:"id"`
	AttemptID  int64        `json:"attemptId"`
	QuestionID int64        `json:"questionId"`
	Selected   OptionLetter `json:"selected"`
	Correct    bool         `json:"correct"`
	AnsweredAt time.Time    `json:"answeredAt"`
}

// AnswerSubmission is one (question, selected option) pair from a client.
type AnswerSubmission struct {
	QuestionID int64        `json:"questionId"`
	Selected   OptionLetter `json:"selectedAnswer"`
}

// QuestionResult is the per-question outcome echoed back after submission.
type QuestionResult struct {
	QuestionID    int64        `json:"questionId"`
	Correct       bool         `json:"isCorrect"`
	CorrectAnswer OptionLetter `json:"correctAnswer"`
}

// SubmitResult summarizes a settled quiz attempt.
type SubmitResult struct {
	AttemptID      int64            `json:"attemptId"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	CreditsEarned  int              `json:"creditsEarned"`
	Results        []QuestionResult `json:"results"`
}

// WeakAreaDelta accumulates incorrect/total counts for one category during a
// settlement.
type WeakAreaDelta struct {
	Incorrect int
	Total     int
}

// Settlement is everything written atomically when an attempt completes:
// the attempt row, its answers, the credit award and the weak-area counters.
type Settlement struct {
	UserID         int64
	QuizID         int64
	Score          int
	TotalQuestions int
	CreditsEarned  int
	Description    string
	Answers        []Answer
	WeakAreas      map[string]WeakAreaDelta
}

// TransactionType tags credit ledger entries.
type TransactionType string

const (
	TransactionEarned TransactionType = "earned"
	TransactionSpent  TransactionType = "spent"
	TransactionBonus  TransactionType = "bonus"
)

// CreditTransaction is an append-only ledger entry. Amount is signed.
type CreditTransaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Amount      int             `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	RelatedID   int64           `json:"relatedId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Reward is a catalog entry users spend credits on.
type Reward struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreditCost  int       `json:"creditCost"`
	Icon        string    `json:"icon,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RedemptionStatus lifecycle is driven by an external back-office process;
// this service only ever creates redemptions as pending.
type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "pending"
	RedemptionApproved  RedemptionStatus = "approved"
	RedemptionCompleted RedemptionStatus = "completed"
	RedemptionCancelled RedemptionStatus = "cancelled"
	RedemptionExpired   RedemptionStatus = "expired"
)

// Redemption is one claim on a reward, debited immediately and fulfilled
// out-of-band.
type Redemption struct {
	ID           int64            `json:"id"`
	UserID       int64            `json:"userId"`
	RewardID     int64            `json:"rewardId"`
	RewardName   string           `json:"rewardName,omitempty"`
	Category     string           `json:"category,omitempty"`
	CreditsSpent int              `json:"creditsSpent"`
	Status       RedemptionStatus `json:"status"`
	RedeemedAt   time.Time        `json:"redeemedAt"`
	ExpiresAt    time.Time        `json:"expiresAt"`
	Notes        string           `json:"notes,omitempty"`
}

// RedeemResult is what the caller observes after a successful redemption.
type RedeemResult struct {
	RedemptionID     int64 `json:"redemptionId"`
	RemainingCredits int   `json:"remainingCredits"`
}

// LeaderboardRow is one ranked leaderboard entry. Users with no attempts
// appear with TotalScore zero.
type LeaderboardRow struct {
	Rank          int     `json:"rank"`
	UserID        int64   `json:"userId"`
	Name          string  `json:"name"`
	Credits       int     `json:"credits"`
	TotalScore    int     `json:"totalScore"`
	TotalAttempts int     `json:"totalAttempts"`
	AverageScore  float64 `json:"avgScore"`
}

// Leaderboard is a ranked snapshot pushed to websocket subscribers.
type Leaderboard struct {
	Rows      []LeaderboardRow `json:"rows"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// VideoDifficulty grades interactive video modules.
type VideoDifficulty string

const (
	VideoBeginner     VideoDifficulty = "beginner"
	VideoIntermediate VideoDifficulty = "intermediate"
	VideoAdvanced     VideoDifficulty = "advanced"
)

// Video is an interactive video module with embedded checkpoints.
type Video struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	VideoURL     string          `json:"videoUrl"`
	ThumbnailURL string          `json:"thumbnailUrl,omitempty"`
	Duration     int             `json:"duration"` // seconds
	Category     string          `json:"category,omitempty"`
	Difficulty   VideoDifficulty `json:"difficulty"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Checkpoint pauses a video at a fixed timestamp and asks a question.
// OptionC/OptionD may be empty (two- and three-option checkpoints exist).
type Checkpoint struct {
	ID                int64        `json:"id"`
	VideoID           int64        `json:"videoId"`
	PauseAt           int          `json:"pauseTime"` // seconds into the video
	Prompt            string       `json:"question"`
	OptionA           string       `json:"optionA"`
	OptionB           string       `json:"optionB"`
	OptionC           string       `json:"optionC,omitempty"`
	OptionD           string       `json:"optionD,omitempty"`
	CorrectOption     OptionLetter `json:"correctOption,omitempty"`
	CorrectFeedback   string       `json:"correctFeedback,omitempty"`
	IncorrectFeedback string       `json:"incorrectFeedback,omitempty"`
	Hint              string       `json:"hintText,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
}

// Public strips grading fields from a checkpoint before it reaches a client
// that has not answered it yet.
func (c Checkpoint) Public() Checkpoint {
	c.CorrectOption = ""
	c.CorrectFeedback = ""
	c.IncorrectFeedback = ""
	c.Hint = ""
	return c
}

// VideoProgress tracks how far a user is through a video and how they did on
// its checkpoints. One row per (user, video), upserted.
type VideoProgress struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	VideoID         int64     `json:"videoId"`
	Position        int       `json:"currentTime"` // seconds
	Completed       bool      `json:"completed"`
	CheckpointScore int       `json:"quizScore"`
	CheckpointTotal int       `json:"totalQuizQuestions"`
	LastWatchedAt   time.Time `json:"lastWatchedAt"`
}

// CheckpointAnswer records a graded checkpoint response, including retries.
type CheckpointAnswer struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"userId"`
	VideoID      int64        `json:"videoId"`
	CheckpointID int64        `json:"checkpointId"`
	Selected     OptionLetter `json:"selected"`
	Correct      bool         `json:"correct"`
	Tries        int          `json:"tries"`
	AnsweredAt   time.Time    `json:"answeredAt"`
}

// CheckpointResult is returned after grading a checkpoint answer. Feedback and
// hint come from the checkpoint definition; BonusAwarded is non-zero only when
// answering this checkpoint completed the video's checkpoint set.
type CheckpointResult struct {
	Correct      bool   `json:"correct"`
	Feedback     string `json:"feedback,omitempty"`
	Hint         string `json:"hint,omitempty"`
	Tries        int    `json:"tries"`
	BonusAwarded int    `json:"bonusAwarded"`
}

// ScenarioRole labels practice conversation turns.
type ScenarioRole string

const (
	ScenarioRoleUser      ScenarioRole = "user"
	ScenarioRoleAssistant ScenarioRole = "assistant"
)

// Scenario is an LLM-generated practice case tied to a user.
type Scenario struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"userId"`
	Text           string     `json:"scenario"`
	Category       string     `json:"category,omitempty"`
	Difficulty     Difficulty `json:"difficulty"`
	TargetWeakArea string     `json:"targetWeakArea,omitempty"`
	Completed      bool       `json:"completed"`
	Score          int        `json:"score,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// ScenarioMessage is one turn of a practice conversation.
type ScenarioMessage struct {
	ID         int64        `json:"id"`
	ScenarioID int64        `json:"scenarioId"`
	Role       ScenarioRole `json:"role"`
	Body       string       `json:"message"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// WeakArea aggregates a user's historical incorrect-answer ratio per category.
type WeakArea struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	Category        string    `json:"category"`
	IncorrectCount  int       `json:"incorrectCount"`
	TotalAttempts   int       `json:"totalAttempts"`
	LastPracticedAt time.Time `json:"lastPracticedAt"`
}

// Ratio is the incorrect-answer ratio used to rank weak areas.
func (w WeakArea) Ratio() float64 {
	if w.TotalAttempts == 0 {
		return 0
	}
	return float64(w.IncorrectCount) / float64(w.TotalAttempts)
}

// Session is a server-side login session resolved by the auth middleware.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"userId"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
