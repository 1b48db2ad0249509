package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"learnquest-service/internal/domain"
)

// AttemptRepository records scored submissions. A partial unique index on
// (user_id, quiz_id) WHERE completed backs the one-completion-per-quiz rule,
// so concurrent settlements race on the insert and the loser gets
// domain.ErrAlreadyCompleted.
type AttemptRepository struct {
	db  *bun.DB
	now func() time.Time
}

func NewAttemptRepository(db *bun.DB) *AttemptRepository {
	return &AttemptRepository{db: db, now: time.Now}
}

func (r *AttemptRepository) HasCompleted(ctx context.Context, userID, quizID int64) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*attemptRow)(nil)).
		Where("a.user_id = ?", userID).
		Where("a.quiz_id = ?", quizID).
		Where("a.completed").
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check attempt: %w", err)
	}
	return exists, nil
}

func (r *AttemptRepository) RecordSettlement(ctx context.Context, settlement domain.Settlement) (domain.Attempt, error) {
	row := attemptRow{
		UserID:         settlement.UserID,
		QuizID:         settlement.QuizID,
		Score:          settlement.Score,
		TotalQuestions: settlement.TotalQuestions,
		Completed:      true,
		CreditsEarned:  settlement.CreditsEarned,
		CompletedAt:    r.now(),
	}

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&row).Returning("*").Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrAlreadyCompleted
			}
			return fmt.Errorf("insert attempt: %w", err)
		}

		if len(settlement.Answers) > 0 {
			answerRows := make([]answerRow, len(settlement.Answers))
			for i, answer := range settlement.Answers {
				answerRows[i] = answerRow{
					AttemptID:  row.ID,
					QuestionID: answer.QuestionID,
					Selected:   string(answer.Selected),
					Correct:    answer.Correct,
					AnsweredAt: row.CompletedAt,
				}
			}
			if _, err := tx.NewInsert().Model(&answerRows).Exec(ctx); err != nil {
				return fmt.Errorf("insert answers: %w", err)
			}
		}

		if settlement.CreditsEarned > 0 {
			res, err := tx.NewUpdate().
				Model((*userRow)(nil)).
				Set("credits = credits + ?", settlement.CreditsEarned).
				Where("id = ?", settlement.UserID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("award credits: %w", err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return domain.ErrUserNotFound
			}
			txRow := transactionRow{
				UserID:      settlement.UserID,
				Amount:      settlement.CreditsEarned,
				Type:        string(domain.TransactionEarned),
				Description: settlement.Description,
				RelatedID:   row.ID,
				CreatedAt:   row.CompletedAt,
			}
			if _, err := tx.NewInsert().Model(&txRow).Exec(ctx); err != nil {
				return fmt.Errorf("record transaction: %w", err)
			}
		}

		for category, delta := range settlement.WeakAreas {
			wa := weakAreaRow{
				UserID:          settlement.UserID,
				Category:        category,
				IncorrectCount:  delta.Incorrect,
				TotalAttempts:   delta.Total,
				LastPracticedAt: row.CompletedAt,
			}
			_, err := tx.NewInsert().
				Model(&wa).
				On("CONFLICT (user_id, category) DO UPDATE").
				Set("incorrect_count = wa.incorrect_count + EXCLUDED.incorrect_count").
				Set("total_attempts = wa.total_attempts + EXCLUDED.total_attempts").
				Set("last_practiced_at = EXCLUDED.last_practiced_at").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("bump weak area: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Attempt{}, err
	}
	return row.toDomain(), nil
}

func (r *AttemptRepository) History(ctx context.Context, userID int64) ([]domain.Attempt, error) {
	var rows []attemptRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("a.user_id = ?", userID).
		Order("a.completed_at DESC", "a.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	out := make([]domain.Attempt, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *AttemptRepository) DeleteCompleted(ctx context.Context, userID, quizID int64) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*answerRow)(nil)).
			Where("attempt_id IN (SELECT id FROM quiz_attempts WHERE user_id = ? AND quiz_id = ? AND completed)", userID, quizID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete answers: %w", err)
		}
		res, err := tx.NewDelete().
			Model((*attemptRow)(nil)).
			Where("user_id = ?", userID).
			Where("quiz_id = ?", quizID).
			Where("completed").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete attempts: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrAttemptNotFound
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
