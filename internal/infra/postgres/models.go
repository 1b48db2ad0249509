// Package postgres is the durable store: bun ORM repositories over the
// relational schema, plus pgx-based loaders for the scoring and leaderboard
// hot paths.
package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"learnquest-service/internal/domain"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Name         string    `bun:"name,notnull,unique"`
	Email        string    `bun:"email"`
	Role         string    `bun:"role,notnull,default:'user'"`
	Credits      int       `bun:"credits,notnull,default:0"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	LastSignedIn time.Time `bun:"last_signed_in,notnull,default:current_timestamp"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         domain.Role(r.Role),
		Credits:      r.Credits,
		CreatedAt:    r.CreatedAt,
		LastSignedIn: r.LastSignedIn,
	}
}

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes,alias:q"`

	ID            int64     `bun:"id,pk,autoincrement"`
	Title         string    `bun:"title,notnull"`
	Description   string    `bun:"description"`
	Category      string    `bun:"category"`
	CreditsReward int       `bun:"credits_reward,notnull,default:0"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`

	QuestionCount int `bun:"question_count,scanonly"`
}

func (r quizRow) toDomain() domain.Quiz {
	return domain.Quiz{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Category:      r.Category,
		CreditsReward: r.CreditsReward,
		QuestionCount: r.QuestionCount,
		CreatedAt:     r.CreatedAt,
	}
}

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:qq"`

	ID            int64     `bun:"id,pk,autoincrement"`
	QuizID        int64     `bun:"quiz_id,notnull"`
	Prompt        string    `bun:"prompt,notnull"`
	OptionA       string    `bun:"option_a,notnull"`
	OptionB       string    `bun:"option_b,notnull"`
	OptionC       string    `bun:"option_c,notnull"`
	OptionD       string    `bun:"option_d,notnull"`
	CorrectOption string    `bun:"correct_option,notnull"`
	Difficulty    string    `bun:"difficulty,notnull,default:'medium'"`
	Category      string    `bun:"category"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

func (r questionRow) toDomain() domain.Question {
	return domain.Question{
		ID:            r.ID,
		QuizID:        r.QuizID,
		Prompt:        r.Prompt,
		OptionA:       r.OptionA,
		OptionB:       r.OptionB,
		OptionC:       r.OptionC,
		OptionD:       r.OptionD,
		CorrectOption: domain.OptionLetter(r.CorrectOption),
		Difficulty:    domain.Difficulty(r.Difficulty),
		Category:      r.Category,
		CreatedAt:     r.CreatedAt,
	}
}

type attemptRow struct {
	bun.BaseModel `bun:"table:quiz_attempts,alias:a"`

	ID             int64     `bun:"id,pk,autoincrement"`
	UserID         int64     `bun:"user_id,notnull"`
	QuizID         int64     `bun:"quiz_id,notnull"`
	Score          int       `bun:"score,notnull,default:0"`
	TotalQuestions int       `bun:"total_questions,notnull,default:0"`
	Completed      bool      `bun:"completed,notnull,default:false"`
	CreditsEarned  int       `bun:"credits_earned,notnull,default:0"`
	CompletedAt    time.Time `bun:"completed_at,notnull,default:current_timestamp"`
}

func (r attemptRow) toDomain() domain.Attempt {
	return domain.Attempt{
		ID:             r.ID,
		UserID:         r.UserID,
		QuizID:         r.QuizID,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Completed:      r.Completed,
		CreditsEarned:  r.CreditsEarned,
		CompletedAt:    r.CompletedAt,
	}
}

type answerRow struct {
	bun.BaseModel `bun:"table:attempt_answers,alias:aa"`

	ID         int64     `bun:"id,pk,autoincrement"`
	AttemptID  int64     `bun:"attempt_id,notnull"`
	QuestionID int64     `bun:"question_id,notnull"`
	Selected   string    `bun:"selected,notnull"`
	Correct    bool      `bun:"correct,notnull"`
	AnsweredAt time.Time `bun:"answered_at,notnull,default:current_timestamp"`
}

type transactionRow struct {
	bun.BaseModel `bun:"table:credit_transactions,alias:ct"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      int64     `bun:"user_id,notnull"`
	Amount      int       `bun:"amount,notnull"`
	Type        string    `bun:"type,notnull"`
	Description string    `bun:"description,notnull"`
	RelatedID   int64     `bun:"related_id,nullzero"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

func (r transactionRow) toDomain() domain.CreditTransaction {
	return domain.CreditTransaction{
		ID:          r.ID,
		UserID:      r.UserID,
		Amount:      r.Amount,
		Type:        domain.TransactionType(r.Type),
		Description: r.Description,
		RelatedID:   r.RelatedID,
		CreatedAt:   r.CreatedAt,
	}
}

type rewardRow struct {
	bun.BaseModel `bun:"table:rewards,alias:r"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	Category    string    `bun:"category,notnull"`
	CreditCost  int       `bun:"credit_cost,notnull"`
	Icon        string    `bun:"icon"`
	Active      bool      `bun:"active,notnull,default:true"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

func (r rewardRow) toDomain() domain.Reward {
	return domain.Reward{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		CreditCost:  r.CreditCost,
		Icon:        r.Icon,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
	}
}

type redemptionRow struct {
	bun.BaseModel `bun:"table:redemptions,alias:rd"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       int64     `bun:"user_id,notnull"`
	RewardID     int64     `bun:"reward_id,notnull"`
	CreditsSpent int       `bun:"credits_spent,notnull"`
	Status       string    `bun:"status,notnull,default:'pending'"`
	RedeemedAt   time.Time `bun:"redeemed_at,notnull,default:current_timestamp"`
	ExpiresAt    time.Time `bun:"expires_at,notnull"`
	Notes        string    `bun:"notes"`

	RewardName string `bun:"reward_name,scanonly"`
	Category   string `bun:"reward_category,scanonly"`
}

func (r redemptionRow) toDomain() domain.Redemption {
	return domain.Redemption{
		ID:           r.ID,
		UserID:       r.UserID,
		RewardID:     r.RewardID,
		RewardName:   r.RewardName,
		Category:     r.Category,
		CreditsSpent: r.CreditsSpent,
		Status:       domain.RedemptionStatus(r.Status),
		RedeemedAt:   r.RedeemedAt,
		ExpiresAt:    r.ExpiresAt,
		Notes:        r.Notes,
	}
}

type videoRow struct {
	bun.BaseModel `bun:"table:videos,alias:v"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Title        string    `bun:"title,notnull"`
	Description  string    `bun:"description"`
	VideoURL     string    `bun:"video_url,notnull"`
	ThumbnailURL string    `bun:"thumbnail_url"`
	Duration     int       `bun:"duration,notnull,default:0"`
	Category     string    `bun:"category"`
	Difficulty   string    `bun:"difficulty,notnull,default:'beginner'"`
	Active       bool      `bun:"active,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

func (r videoRow) toDomain() domain.Video {
	return domain.Video{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		VideoURL:     r.VideoURL,
		ThumbnailURL: r.ThumbnailURL,
		Duration:     r.Duration,
		Category:     r.Category,
		Difficulty:   domain.VideoDifficulty(r.Difficulty),
		Active:       r.Active,
		CreatedAt:    r.CreatedAt,
	}
}

type checkpointRow struct {
	bun.BaseModel `bun:"table:video_checkpoints,alias:vc"`

	ID                int64     `bun:"id,pk,autoincrement"`
	VideoID           int64     `bun:"video_id,notnull"`
	PauseAt           int       `bun:"pause_at,notnull"`
	Prompt            string    `bun:"prompt,notnull"`
	OptionA           string    `bun:"option_a,notnull"`
	OptionB           string    `bun:"option_b,notnull"`
	OptionC           string    `bun:"option_c"`
	OptionD           string    `bun:"option_d"`
	CorrectOption     string    `bun:"correct_option,notnull"`
	CorrectFeedback   string    `bun:"correct_feedback"`
	IncorrectFeedback string    `bun:"incorrect_feedback"`
	Hint              string    `bun:"hint"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

func (r checkpointRow) toDomain() domain.Checkpoint {
	return domain.Checkpoint{
		ID:                r.ID,
		VideoID:           r.VideoID,
		PauseAt:           r.PauseAt,
		Prompt:            r.Prompt,
		OptionA:           r.OptionA,
		OptionB:           r.OptionB,
		OptionC:           r.OptionC,
		OptionD:           r.OptionD,
		CorrectOption:     domain.OptionLetter(r.CorrectOption),
		CorrectFeedback:   r.CorrectFeedback,
		IncorrectFeedback: r.IncorrectFeedback,
		Hint:              r.Hint,
		CreatedAt:         r.CreatedAt,
	}
}

type progressRow struct {
	bun.BaseModel `bun:"table:video_progress,alias:vp"`

	ID              int64     `bun:"id,pk,autoincrement"`
	UserID          int64     `bun:"user_id,notnull"`
	VideoID         int64     `bun:"video_id,notnull"`
	Position        int       `bun:"position,notnull,default:0"`
	Completed       bool      `bun:"completed,notnull,default:false"`
	CheckpointScore int       `bun:"checkpoint_score,notnull,default:0"`
	CheckpointTotal int       `bun:"checkpoint_total,notnull,default:0"`
	LastWatchedAt   time.Time `bun:"last_watched_at,notnull,default:current_timestamp"`
}

func (r progressRow) toDomain() domain.VideoProgress {
	return domain.VideoProgress{
		ID:              r.ID,
		UserID:          r.UserID,
		VideoID:         r.VideoID,
		Position:        r.Position,
		Completed:       r.Completed,
		CheckpointScore: r.CheckpointScore,
		CheckpointTotal: r.CheckpointTotal,
		LastWatchedAt:   r.LastWatchedAt,
	}
}

type checkpointAnswerRow struct {
	bun.BaseModel `bun:"table:checkpoint_answers,alias:ca"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       int64     `bun:"user_id,notnull"`
	VideoID      int64     `bun:"video_id,notnull"`
	CheckpointID int64     `bun:"checkpoint_id,notnull"`
	Selected     string    `bun:"selected,notnull"`
	Correct      bool      `bun:"correct,notnull"`
	Tries        int       `bun:"tries,notnull,default:1"`
	AnsweredAt   time.Time `bun:"answered_at,notnull,default:current_timestamp"`
}

func (r checkpointAnswerRow) toDomain() domain.CheckpointAnswer {
	return domain.CheckpointAnswer{
		ID:           r.ID,
		UserID:       r.UserID,
		VideoID:      r.VideoID,
		CheckpointID: r.CheckpointID,
		Selected:     domain.OptionLetter(r.Selected),
		Correct:      r.Correct,
		Tries:        r.Tries,
		AnsweredAt:   r.AnsweredAt,
	}
}

type scenarioRow struct {
	bun.BaseModel `bun:"table:practice_scenarios,alias:ps"`

	ID             int64     `bun:"id,pk,autoincrement"`
	UserID         int64     `bun:"user_id,notnull"`
	Text           string    `bun:"scenario,notnull"`
	Category       string    `bun:"category"`
	Difficulty     string    `bun:"difficulty,notnull,default:'medium'"`
	TargetWeakArea string    `bun:"target_weak_area"`
	Completed      bool      `bun:"completed,notnull,default:false"`
	Score          int       `bun:"score,notnull,default:0"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

func (r scenarioRow) toDomain() domain.Scenario {
	return domain.Scenario{
		ID:             r.ID,
		UserID:         r.UserID,
		Text:           r.Text,
		Category:       r.Category,
		Difficulty:     domain.Difficulty(r.Difficulty),
		TargetWeakArea: r.TargetWeakArea,
		Completed:      r.Completed,
		Score:          r.Score,
		CreatedAt:      r.CreatedAt,
	}
}

type scenarioMessageRow struct {
	bun.BaseModel `bun:"table:scenario_messages,alias:sm"`

	ID         int64     `bun:"id,pk,autoincrement"`
	ScenarioID int64     `bun:"scenario_id,notnull"`
	Role       string    `bun:"role,notnull"`
	Body       string    `bun:"body,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

func (r scenarioMessageRow) toDomain() domain.ScenarioMessage {
	return domain.ScenarioMessage{
		ID:         r.ID,
		ScenarioID: r.ScenarioID,
		Role:       domain.ScenarioRole(r.Role),
		Body:       r.Body,
		CreatedAt:  r.CreatedAt,
	}
}

type weakAreaRow struct {
	bun.BaseModel `bun:"table:weak_areas,alias:wa"`

	ID              int64     `bun:"id,pk,autoincrement"`
	UserID          int64     `bun:"user_id,notnull"`
	Category        string    `bun:"category,notnull"`
	IncorrectCount  int       `bun:"incorrect_count,notnull,default:0"`
	TotalAttempts   int       `bun:"total_attempts,notnull,default:0"`
	LastPracticedAt time.Time `bun:"last_practiced_at,notnull,default:current_timestamp"`
}

func (r weakAreaRow) toDomain() domain.WeakArea {
	return domain.WeakArea{
		ID:              r.ID,
		UserID:          r.UserID,
		Category:        r.Category,
		IncorrectCount:  r.IncorrectCount,
		TotalAttempts:   r.TotalAttempts,
		LastPracticedAt: r.LastPracticedAt,
	}
}
