package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"learnquest-service/internal/app"
	"learnquest-service/internal/domain"
	"learnquest-service/internal/infra/postgres"
	pgmigrations "learnquest-service/internal/infra/postgres/migrations"
	infraredis "learnquest-service/internal/infra/redis"
	"learnquest-service/internal/seed"
)

func TestSubmitAndRedeemEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := openBun(t, pgURL)
	defer db.Close()
	migrateAndSeed(t, ctx, db)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := postgres.NewUserRepository(db)
	questions := postgres.NewQuestionRepository(db)
	attempts := postgres.NewAttemptRepository(db)
	credits := postgres.NewCreditRepository(db)
	rewards := postgres.NewRewardRepository(db)
	keys := infraredis.NewAnswerKeyCache(redisClient, postgres.NewAnswerKeyLoader(pool), 5*time.Minute)
	snapshots := infraredis.NewSnapshotCache(redisClient, 5*time.Second)

	board := app.NewLeaderboardService(postgres.NewLeaderboardSource(pool), snapshots, 10, log)
	quizSvc := app.NewQuizService(questions, keys, attempts, board, log)
	rewardSvc := app.NewRewardsService(rewards, credits, users, board, log)

	user, err := users.UpsertByName(ctx, "Alice")
	if err != nil {
		t.Fatalf("upsert user: %v", err)
	}

	quizzes, err := quizSvc.List(ctx)
	if err != nil || len(quizzes) == 0 {
		t.Fatalf("expected seeded quizzes, got %d err=%v", len(quizzes), err)
	}
	quiz := quizzes[0]
	quizQuestions, err := questions.Questions(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}

	// Answer everything with A: the scored total must match the question count
	// and the credit award the proportional formula.
	subs := make([]domain.AnswerSubmission, len(quizQuestions))
	for i, q := range quizQuestions {
		subs[i] = domain.AnswerSubmission{QuestionID: q.ID, Selected: domain.OptionA}
	}
	result, err := quizSvc.Submit(ctx, user.ID, quiz.ID, subs)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.TotalQuestions != len(quizQuestions) {
		t.Fatalf("expected total %d, got %d", len(quizQuestions), result.TotalQuestions)
	}
	want := result.Score * quiz.CreditsReward / result.TotalQuestions
	if result.CreditsEarned != want {
		t.Fatalf("expected %d credits, got %d", want, result.CreditsEarned)
	}

	// The unique completion constraint holds across a fresh service instance.
	fresh := app.NewQuizService(questions, keys, attempts, board, log)
	if _, err := fresh.Submit(ctx, user.ID, quiz.ID, subs); err == nil {
		t.Fatal("expected duplicate submission to fail")
	}

	balanceAfter, err := users.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if balanceAfter.Credits != result.CreditsEarned {
		t.Fatalf("expected balance %d, got %d", result.CreditsEarned, balanceAfter.Credits)
	}

	boardNow, err := board.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(boardNow.Rows) == 0 || boardNow.Rows[0].UserID != user.ID {
		t.Fatalf("expected Alice on top, got %+v", boardNow.Rows)
	}

	// Redeem the cheapest affordable reward, if the earned credits cover one.
	catalog, err := rewardSvc.List(ctx)
	if err != nil {
		t.Fatalf("rewards: %v", err)
	}
	for _, reward := range catalog {
		if reward.CreditCost <= balanceAfter.Credits {
			redeemed, err := rewardSvc.Redeem(ctx, user.ID, reward.ID)
			if err != nil {
				t.Fatalf("redeem: %v", err)
			}
			if redeemed.RemainingCredits != balanceAfter.Credits-reward.CreditCost {
				t.Fatalf("expected %d remaining, got %d", balanceAfter.Credits-reward.CreditCost, redeemed.RemainingCredits)
			}
			break
		}
	}
}

func openBun(t *testing.T, dsn string) *bun.DB {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func migrateAndSeed(t *testing.T, ctx context.Context, db *bun.DB) {
	t.Helper()
	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := postgres.NewSeeder(db).Seed(ctx, seed.Demo()); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quest", "POSTGRES_PASSWORD": "questpass", "POSTGRES_DB": "questdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quest:questpass@%s:%s/questdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
