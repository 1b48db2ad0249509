package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"learnquest-service/internal/seed"
)

// Seeder inserts the demo dataset. Seeding is idempotent at the dataset
// level: if any quiz exists, the whole run is skipped.
type Seeder struct {
	db  *bun.DB
	now func() time.Time
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db, now: time.Now}
}

func (s *Seeder) Seed(ctx context.Context, data seed.Data) (bool, error) {
	count, err := s.db.NewSelect().Model((*quizRow)(nil)).Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count quizzes: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	for _, set := range data.Quizzes {
		quiz := quizRow{
			Title:         set.Quiz.Title,
			Description:   set.Quiz.Description,
			Category:      set.Quiz.Category,
			CreditsReward: set.Quiz.CreditsReward,
			CreatedAt:     s.now(),
		}
		if _, err := s.db.NewInsert().Model(&quiz).Returning("id").Exec(ctx); err != nil {
			return false, fmt.Errorf("seed quiz: %w", err)
		}
		for _, q := range set.Questions {
			row := questionRow{
				QuizID:        quiz.ID,
				Prompt:        q.Prompt,
				OptionA:       q.OptionA,
				OptionB:       q.OptionB,
				OptionC:       q.OptionC,
				OptionD:       q.OptionD,
				CorrectOption: string(q.CorrectOption),
				Difficulty:    string(q.Difficulty),
				Category:      q.Category,
				CreatedAt:     s.now(),
			}
			if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
				return false, fmt.Errorf("seed question: %w", err)
			}
		}
	}

	for _, reward := range data.Rewards {
		row := rewardRow{
			Name:        reward.Name,
			Description: reward.Description,
			Category:    reward.Category,
			CreditCost:  reward.CreditCost,
			Icon:        reward.Icon,
			Active:      reward.Active,
			CreatedAt:   s.now(),
		}
		if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
			return false, fmt.Errorf("seed reward: %w", err)
		}
	}

	for _, set := range data.Videos {
		video := videoRow{
			Title:        set.Video.Title,
			Description:  set.Video.Description,
			VideoURL:     set.Video.VideoURL,
			ThumbnailURL: set.Video.ThumbnailURL,
			Duration:     set.Video.Duration,
			Category:     set.Video.Category,
			Difficulty:   string(set.Video.Difficulty),
			Active:       set.Video.Active,
			CreatedAt:    s.now(),
		}
		if _, err := s.db.NewInsert().Model(&video).Returning("id").Exec(ctx); err != nil {
			return false, fmt.Errorf("seed video: %w", err)
		}
		for _, cp := range set.Checkpoints {
			row := checkpointRow{
				VideoID:           video.ID,
				PauseAt:           cp.PauseAt,
				Prompt:            cp.Prompt,
				OptionA:           cp.OptionA,
				OptionB:           cp.OptionB,
				OptionC:           cp.OptionC,
				OptionD:           cp.OptionD,
				CorrectOption:     string(cp.CorrectOption),
				CorrectFeedback:   cp.CorrectFeedback,
				IncorrectFeedback: cp.IncorrectFeedback,
				Hint:              cp.Hint,
				CreatedAt:         s.now(),
			}
			if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
				return false, fmt.Errorf("seed checkpoint: %w", err)
			}
		}
	}
	return true, nil
}
