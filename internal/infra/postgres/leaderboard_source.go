package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"learnquest-service/internal/domain"
)

// LeaderboardSource computes the ranked view with a single aggregate query
// over pgx. Users with no completed attempts rank with a zero total.
type LeaderboardSource struct {
	pool *pgxpool.Pool
}

func NewLeaderboardSource(pool *pgxpool.Pool) *LeaderboardSource {
	return &LeaderboardSource{pool: pool}
}

func (s *LeaderboardSource) TopN(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	builder := psql.
		Select(
			"u.id",
			"u.name",
			"u.credits",
			"COALESCE(SUM(a.score), 0) AS total_score",
			"COUNT(a.id) AS total_attempts",
		).
		From("users u").
		LeftJoin("quiz_attempts a ON a.user_id = u.id AND a.completed").
		GroupBy("u.id", "u.name", "u.credits").
		OrderBy("total_score DESC", "u.id ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []domain.LeaderboardRow
	for rows.Next() {
		var row domain.LeaderboardRow
		if err := rows.Scan(&row.UserID, &row.Name, &row.Credits, &row.TotalScore, &row.TotalAttempts); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		if row.TotalAttempts > 0 {
			row.AverageScore = float64(row.TotalScore) / float64(row.TotalAttempts)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return out, nil
}
