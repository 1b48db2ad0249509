package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"learnquest-service/internal/domain"
)

// checkpointBonus is the flat per-checkpoint credit award granted once when a
// user answers every checkpoint of a video correctly.
const checkpointBonus = 10

// VideoService covers the interactive video flow: progress tracking and
// checkpoint grading with a one-time completion bonus.
type VideoService struct {
	videos  VideoStore
	credits CreditLedger
	now     func() time.Time
	log     *slog.Logger
}

func NewVideoService(videos VideoStore, credits CreditLedger, log *slog.Logger) *VideoService {
	if log == nil {
		log = slog.Default()
	}
	return &VideoService{videos: videos, credits: credits, now: time.Now, log: log}
}

// List returns active video modules.
func (s *VideoService) List(ctx context.Context) ([]domain.Video, error) {
	return s.videos.ListActive(ctx)
}

// Get returns one video module.
func (s *VideoService) Get(ctx context.Context, videoID int64) (domain.Video, error) {
	return s.videos.Get(ctx, videoID)
}

// Checkpoints returns a video's checkpoints ordered by pause time, with
// grading fields stripped.
func (s *VideoService) Checkpoints(ctx context.Context, videoID int64) ([]domain.Checkpoint, error) {
	if _, err := s.videos.Get(ctx, videoID); err != nil {
		return nil, err
	}
	checkpoints, err := s.videos.Checkpoints(ctx, videoID)
	if err != nil {
		return nil, err
	}
	public := make([]domain.Checkpoint, 0, len(checkpoints))
	for _, cp := range checkpoints {
		public = append(public, cp.Public())
	}
	return public, nil
}

// Progress returns the user's progress for a video, zero-valued when they
// have not started it.
func (s *VideoService) Progress(ctx context.Context, userID, videoID int64) (domain.VideoProgress, error) {
	if _, err := s.videos.Get(ctx, videoID); err != nil {
		return domain.VideoProgress{}, err
	}
	progress, ok, err := s.videos.Progress(ctx, userID, videoID)
	if err != nil {
		return domain.VideoProgress{}, err
	}
	if !ok {
		return domain.VideoProgress{UserID: userID, VideoID: videoID}, nil
	}
	return progress, nil
}

// SaveProgress upserts the user's playback position. Position may not move
// backwards past zero or beyond the video duration.
func (s *VideoService) SaveProgress(ctx context.Context, userID, videoID int64, position int, completed bool) (domain.VideoProgress, error) {
	video, err := s.videos.Get(ctx, videoID)
	if err != nil {
		return domain.VideoProgress{}, err
	}
	if position < 0 || (video.Duration > 0 && position > video.Duration) {
		return domain.VideoProgress{}, fmt.Errorf("%w: position %d out of range", domain.ErrInvalidAnswers, position)
	}

	progress, ok, err := s.videos.Progress(ctx, userID, videoID)
	if err != nil {
		return domain.VideoProgress{}, err
	}
	if !ok {
		progress = domain.VideoProgress{UserID: userID, VideoID: videoID}
	}
	progress.Position = position
	progress.Completed = progress.Completed || completed
	progress.LastWatchedAt = s.now()
	return s.videos.SaveProgress(ctx, progress)
}

// AnswerCheckpoint grades a checkpoint answer. Wrong answers return the
// checkpoint's feedback and hint and may be retried; retries accumulate the
// try counter. The first time every checkpoint of the video is answered
// correctly, a flat bonus of 10 credits per checkpoint is awarded through the
// credit ledger.
func (s *VideoService) AnswerCheckpoint(ctx context.Context, userID, videoID, checkpointID int64, selected domain.OptionLetter) (domain.CheckpointResult, error) {
	if !selected.Valid() {
		return domain.CheckpointResult{}, fmt.Errorf("%w: option %q", domain.ErrInvalidAnswers, selected)
	}
	video, err := s.videos.Get(ctx, videoID)
	if err != nil {
		return domain.CheckpointResult{}, err
	}
	cp, err := s.videos.GetCheckpoint(ctx, checkpointID)
	if err != nil {
		return domain.CheckpointResult{}, err
	}
	if cp.VideoID != videoID {
		return domain.CheckpointResult{}, domain.ErrCheckpointNotFound
	}

	correct := selected == cp.CorrectOption
	answer, err := s.videos.SaveCheckpointAnswer(ctx, domain.CheckpointAnswer{
		UserID:       userID,
		VideoID:      videoID,
		CheckpointID: checkpointID,
		Selected:     selected,
		Correct:      correct,
		AnsweredAt:   s.now(),
	})
	if err != nil {
		return domain.CheckpointResult{}, err
	}

	result := domain.CheckpointResult{Correct: answer.Correct, Tries: answer.Tries}
	if answer.Correct {
		result.Feedback = cp.CorrectFeedback
	} else {
		result.Feedback = cp.IncorrectFeedback
		result.Hint = cp.Hint
	}

	bonus, err := s.updateCheckpointProgress(ctx, userID, video)
	if err != nil {
		return domain.CheckpointResult{}, err
	}
	result.BonusAwarded = bonus
	return result, nil
}

// updateCheckpointProgress recomputes the checkpoint score for the video and
// awards the completion bonus exactly once, on the transition to all-correct.
func (s *VideoService) updateCheckpointProgress(ctx context.Context, userID int64, video domain.Video) (int, error) {
	checkpoints, err := s.videos.Checkpoints(ctx, video.ID)
	if err != nil {
		return 0, err
	}
	answers, err := s.videos.CheckpointAnswers(ctx, userID, video.ID)
	if err != nil {
		return 0, err
	}
	correctCount := 0
	for _, a := range answers {
		if a.Correct {
			correctCount++
		}
	}

	completedNow, err := s.videos.SaveCheckpointProgress(ctx, userID, video.ID, correctCount, len(checkpoints))
	if err != nil {
		return 0, err
	}
	if !completedNow {
		return 0, nil
	}

	bonus := checkpointBonus * len(checkpoints)
	if _, err := s.credits.Adjust(ctx, userID, bonus, domain.TransactionBonus, "Completed video: "+video.Title, video.ID); err != nil {
		return 0, err
	}
	s.log.InfoContext(ctx, "video checkpoint bonus awarded",
		"user_id", userID, "video_id", video.ID, "bonus", bonus)
	return bonus, nil
}
