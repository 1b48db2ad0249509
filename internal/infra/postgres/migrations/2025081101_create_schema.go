package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_schema.sql
var createSchemaSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createSchemaSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`DROP TABLE IF EXISTS
				weak_areas, scenario_messages, practice_scenarios,
				checkpoint_answers, video_progress, video_checkpoints, videos,
				redemptions, rewards, credit_transactions, attempt_answers,
				quiz_attempts, questions, quizzes, users`)
			return err
		},
	)
}
