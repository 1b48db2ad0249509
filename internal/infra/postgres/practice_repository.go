package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"learnquest-service/internal/domain"
)

// PracticeRepository persists AI practice scenarios, their conversations and
// the per-category weak-area counters.
type PracticeRepository struct {
	db  *bun.DB
	now func() time.Time
}

func NewPracticeRepository(db *bun.DB) *PracticeRepository {
	return &PracticeRepository{db: db, now: time.Now}
}

func (r *PracticeRepository) CreateScenario(ctx context.Context, s domain.Scenario) (domain.Scenario, error) {
	row := scenarioRow{
		UserID:         s.UserID,
		Text:           s.Text,
		Category:       s.Category,
		Difficulty:     string(s.Difficulty),
		TargetWeakArea: s.TargetWeakArea,
		CreatedAt:      r.now(),
	}
	if _, err := r.db.NewInsert().Model(&row).Returning("*").Exec(ctx); err != nil {
		return domain.Scenario{}, fmt.Errorf("insert scenario: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PracticeRepository) Scenario(ctx context.Context, userID, scenarioID int64) (domain.Scenario, error) {
	var row scenarioRow
	err := r.db.NewSelect().
		Model(&row).
		Where("ps.id = ?", scenarioID).
		Where("ps.user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Scenario{}, domain.ErrScenarioNotFound
	}
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("get scenario: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PracticeRepository) Scenarios(ctx context.Context, userID int64) ([]domain.Scenario, error) {
	var rows []scenarioRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("ps.user_id = ?", userID).
		Order("ps.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	out := make([]domain.Scenario, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// CompleteScenario flips the completed flag and reports whether this call
// performed the transition. The guard keeps concurrent completions from both
// claiming it.
func (r *PracticeRepository) CompleteScenario(ctx context.Context, scenarioID int64, score int) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*scenarioRow)(nil)).
		Set("completed = true").
		Set("score = ?", score).
		Where("id = ?", scenarioID).
		Where("NOT completed").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("complete scenario: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return true, nil
	}
	exists, err := r.db.NewSelect().Model((*scenarioRow)(nil)).Where("ps.id = ?", scenarioID).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("complete scenario: %w", err)
	}
	if !exists {
		return false, domain.ErrScenarioNotFound
	}
	return false, nil
}

func (r *PracticeRepository) AppendMessage(ctx context.Context, m domain.ScenarioMessage) (domain.ScenarioMessage, error) {
	exists, err := r.db.NewSelect().Model((*scenarioRow)(nil)).Where("ps.id = ?", m.ScenarioID).Exists(ctx)
	if err != nil {
		return domain.ScenarioMessage{}, fmt.Errorf("check scenario: %w", err)
	}
	if !exists {
		return domain.ScenarioMessage{}, domain.ErrScenarioNotFound
	}

	row := scenarioMessageRow{
		ScenarioID: m.ScenarioID,
		Role:       string(m.Role),
		Body:       m.Body,
		CreatedAt:  r.now(),
	}
	if _, err := r.db.NewInsert().Model(&row).Returning("*").Exec(ctx); err != nil {
		return domain.ScenarioMessage{}, fmt.Errorf("insert message: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PracticeRepository) Messages(ctx context.Context, scenarioID int64) ([]domain.ScenarioMessage, error) {
	var rows []scenarioMessageRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("sm.scenario_id = ?", scenarioID).
		Order("sm.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	out := make([]domain.ScenarioMessage, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *PracticeRepository) WeakAreas(ctx context.Context, userID int64) ([]domain.WeakArea, error) {
	var rows []weakAreaRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("wa.user_id = ?", userID).
		OrderExpr("CASE WHEN wa.total_attempts = 0 THEN 0 ELSE wa.incorrect_count::float / wa.total_attempts END DESC").
		Order("wa.category ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list weak areas: %w", err)
	}
	out := make([]domain.WeakArea, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *PracticeRepository) TouchWeakArea(ctx context.Context, userID int64, category string) error {
	_, err := r.db.NewUpdate().
		Model((*weakAreaRow)(nil)).
		Set("last_practiced_at = ?", r.now()).
		Where("user_id = ?", userID).
		Where("category = ?", category).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("touch weak area: %w", err)
	}
	return nil
}
