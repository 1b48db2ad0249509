package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"

	"learnquest-service/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// AnswerKeyLoader reads the scoring columns straight off the questions table
// over pgx, bypassing the ORM. It sits behind the Redis (or in-memory) cache.
type AnswerKeyLoader struct {
	pool *pgxpool.Pool
}

func NewAnswerKeyLoader(pool *pgxpool.Pool) *AnswerKeyLoader {
	return &AnswerKeyLoader{pool: pool}
}

func (l *AnswerKeyLoader) AnswerKey(ctx context.Context, quizID int64) (domain.AnswerKey, error) {
	var exists bool
	err := l.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quizzes WHERE id=$1)`, quizID).Scan(&exists)
	if err != nil {
		return domain.AnswerKey{}, fmt.Errorf("check quiz: %w", err)
	}
	if !exists {
		return domain.AnswerKey{}, domain.ErrQuizNotFound
	}

	query, args, err := psql.
		Select("id", "correct_option", "category").
		From("questions").
		Where(sq.Eq{"quiz_id": quizID}).
		ToSql()
	if err != nil {
		return domain.AnswerKey{}, fmt.Errorf("build query: %w", err)
	}

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return domain.AnswerKey{}, fmt.Errorf("load answer key: %w", err)
	}
	defer rows.Close()

	key := domain.AnswerKey{
		QuizID:     quizID,
		Correct:    make(map[int64]domain.OptionLetter),
		Categories: make(map[int64]string),
	}
	for rows.Next() {
		var (
			questionID int64
			letter     string
			category   string
		)
		if err := rows.Scan(&questionID, &letter, &category); err != nil {
			return domain.AnswerKey{}, fmt.Errorf("scan answer key: %w", err)
		}
		key.Correct[questionID] = domain.OptionLetter(letter)
		key.Categories[questionID] = category
	}
	if err := rows.Err(); err != nil {
		return domain.AnswerKey{}, fmt.Errorf("read answer key: %w", err)
	}
	return key, nil
}
