package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"learnquest-service/internal/config"
	"learnquest-service/internal/infra/memory"
	"learnquest-service/internal/infra/postgres"
	"learnquest-service/internal/seed"
)

// NewSeedCmd loads the demo dataset into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo quizzes, rewards and videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}

			db := openBun(cfg.Postgres.URL)
			defer db.Close()

			seeded, err := postgres.NewSeeder(db).Seed(cmd.Context(), seed.Demo())
			if err != nil {
				return err
			}
			if !seeded {
				slog.Info("database already seeded, skipping")
				return nil
			}
			slog.Info("demo data seeded")
			return nil
		},
	}
}

// seedMemory preloads the in-memory store for zero-config runs.
func seedMemory(store *memory.Store) {
	data := seed.Demo()
	for _, set := range data.Quizzes {
		store.AddQuiz(set.Quiz, set.Questions)
	}
	for _, reward := range data.Rewards {
		store.AddReward(reward)
	}
	for _, set := range data.Videos {
		store.AddVideo(set.Video, set.Checkpoints)
	}
}
