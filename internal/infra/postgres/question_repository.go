package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"learnquest-service/internal/domain"
)

// QuestionRepository serves quiz content through bun.
type QuestionRepository struct {
	db *bun.DB
}

func NewQuestionRepository(db *bun.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	var rows []quizRow
	err := r.db.NewSelect().
		Model(&rows).
		ColumnExpr("q.*").
		ColumnExpr("(SELECT count(*) FROM questions qq WHERE qq.quiz_id = q.id) AS question_count").
		Order("q.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	out := make([]domain.Quiz, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *QuestionRepository) GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error) {
	var row quizRow
	err := r.db.NewSelect().
		Model(&row).
		ColumnExpr("q.*").
		ColumnExpr("(SELECT count(*) FROM questions qq WHERE qq.quiz_id = q.id) AS question_count").
		Where("q.id = ?", quizID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("get quiz: %w", err)
	}
	return row.toDomain(), nil
}

func (r *QuestionRepository) Questions(ctx context.Context, quizID int64) ([]domain.Question, error) {
	exists, err := r.db.NewSelect().Model((*quizRow)(nil)).Where("q.id = ?", quizID).Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check quiz: %w", err)
	}
	if !exists {
		return nil, domain.ErrQuizNotFound
	}

	var rows []questionRow
	err = r.db.NewSelect().
		Model(&rows).
		Where("qq.quiz_id = ?", quizID).
		Order("qq.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	out := make([]domain.Question, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *QuestionRepository) Sample(ctx context.Context, filter domain.QuestionFilter) ([]domain.Question, error) {
	var rows []questionRow
	q := r.db.NewSelect().Model(&rows).OrderExpr("random()")
	if filter.Category != "" {
		q = q.Where("qq.category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		q = q.Where("qq.difficulty = ?", string(filter.Difficulty))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	out := make([]domain.Question, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
