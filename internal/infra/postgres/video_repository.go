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

// VideoRepository persists video modules, checkpoints, watch progress and
// graded checkpoint answers.
type VideoRepository struct {
	db  *bun.DB
	now func() time.Time
}

func NewVideoRepository(db *bun.DB) *VideoRepository {
	return &VideoRepository{db: db, now: time.Now}
}

func (r *VideoRepository) ListActive(ctx context.Context) ([]domain.Video, error) {
	var rows []videoRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("v.active").
		Order("v.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	out := make([]domain.Video, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *VideoRepository) Get(ctx context.Context, videoID int64) (domain.Video, error) {
	var row videoRow
	err := r.db.NewSelect().Model(&row).Where("v.id = ?", videoID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Video{}, domain.ErrVideoNotFound
	}
	if err != nil {
		return domain.Video{}, fmt.Errorf("get video: %w", err)
	}
	return row.toDomain(), nil
}

func (r *VideoRepository) Checkpoints(ctx context.Context, videoID int64) ([]domain.Checkpoint, error) {
	var rows []checkpointRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("vc.video_id = ?", videoID).
		Order("vc.pause_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	out := make([]domain.Checkpoint, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *VideoRepository) GetCheckpoint(ctx context.Context, checkpointID int64) (domain.Checkpoint, error) {
	var row checkpointRow
	err := r.db.NewSelect().Model(&row).Where("vc.id = ?", checkpointID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Checkpoint{}, domain.ErrCheckpointNotFound
	}
	if err != nil {
		return domain.Checkpoint{}, fmt.Errorf("get checkpoint: %w", err)
	}
	return row.toDomain(), nil
}

func (r *VideoRepository) Progress(ctx context.Context, userID, videoID int64) (domain.VideoProgress, bool, error) {
	var row progressRow
	err := r.db.NewSelect().
		Model(&row).
		Where("vp.user_id = ?", userID).
		Where("vp.video_id = ?", videoID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.VideoProgress{}, false, nil
	}
	if err != nil {
		return domain.VideoProgress{}, false, fmt.Errorf("get progress: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *VideoRepository) SaveProgress(ctx context.Context, p domain.VideoProgress) (domain.VideoProgress, error) {
	row := progressRow{
		UserID:          p.UserID,
		VideoID:         p.VideoID,
		Position:        p.Position,
		Completed:       p.Completed,
		CheckpointScore: p.CheckpointScore,
		CheckpointTotal: p.CheckpointTotal,
		LastWatchedAt:   r.now(),
	}
	_, err := r.db.NewInsert().
		Model(&row).
		On("CONFLICT (user_id, video_id) DO UPDATE").
		Set("position = EXCLUDED.position").
		Set("completed = EXCLUDED.completed").
		Set("checkpoint_score = EXCLUDED.checkpoint_score").
		Set("checkpoint_total = EXCLUDED.checkpoint_total").
		Set("last_watched_at = EXCLUDED.last_watched_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return domain.VideoProgress{}, fmt.Errorf("save progress: %w", err)
	}
	return row.toDomain(), nil
}

// SaveCheckpointProgress upserts the checkpoint score and reports whether
// this call moved the row to all-correct. The conflict guard skips the update
// once the set is complete, so concurrent completions claim the transition at
// most once.
func (r *VideoRepository) SaveCheckpointProgress(ctx context.Context, userID, videoID int64, score, total int) (bool, error) {
	row := progressRow{
		UserID:          userID,
		VideoID:         videoID,
		CheckpointScore: score,
		CheckpointTotal: total,
		LastWatchedAt:   r.now(),
	}
	res, err := r.db.NewInsert().
		Model(&row).
		On("CONFLICT (user_id, video_id) DO UPDATE").
		Set("checkpoint_score = EXCLUDED.checkpoint_score").
		Set("checkpoint_total = EXCLUDED.checkpoint_total").
		Set("last_watched_at = EXCLUDED.last_watched_at").
		Where("NOT (vp.checkpoint_total > 0 AND vp.checkpoint_score >= vp.checkpoint_total)").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("save checkpoint progress: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0 && total > 0 && score >= total, nil
}

func (r *VideoRepository) SaveCheckpointAnswer(ctx context.Context, a domain.CheckpointAnswer) (domain.CheckpointAnswer, error) {
	row := checkpointAnswerRow{
		UserID:       a.UserID,
		VideoID:      a.VideoID,
		CheckpointID: a.CheckpointID,
		Selected:     string(a.Selected),
		Correct:      a.Correct,
		Tries:        1,
		AnsweredAt:   r.now(),
	}
	// Retries accumulate and a passed checkpoint never reverts.
	_, err := r.db.NewInsert().
		Model(&row).
		On("CONFLICT (user_id, checkpoint_id) DO UPDATE").
		Set("selected = EXCLUDED.selected").
		Set("correct = ca.correct OR EXCLUDED.correct").
		Set("tries = ca.tries + 1").
		Set("answered_at = EXCLUDED.answered_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return domain.CheckpointAnswer{}, fmt.Errorf("save checkpoint answer: %w", err)
	}
	return row.toDomain(), nil
}

func (r *VideoRepository) CheckpointAnswers(ctx context.Context, userID, videoID int64) ([]domain.CheckpointAnswer, error) {
	var rows []checkpointAnswerRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("ca.user_id = ?", userID).
		Where("ca.video_id = ?", videoID).
		Order("ca.checkpoint_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list checkpoint answers: %w", err)
	}
	out := make([]domain.CheckpointAnswer, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
