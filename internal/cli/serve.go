package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"learnquest-service/internal/app"
	"learnquest-service/internal/config"
	"learnquest-service/internal/infra/memory"
	"learnquest-service/internal/infra/postgres"
	rediscache "learnquest-service/internal/infra/redis"
	"learnquest-service/internal/lib/slogcustom"
	"learnquest-service/internal/llm"
	transport "learnquest-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the learning service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	answerKeyTTL := config.TTLDuration(cfg.Cache.AnswerKeyTTL, 10*time.Minute)
	snapshotTTL := config.TTLDuration(cfg.Cache.SnapshotTTL, 5*time.Second)
	sessionTTL := config.TTLDuration(cfg.Session.TTL, 24*time.Hour)

	var (
		users       app.UserStore
		questions   app.QuestionStore
		attempts    app.AttemptLedger
		credits     app.CreditLedger
		rewardStore app.RewardStore
		videoStore  app.VideoStore
		practice    app.PracticeStore
		source      app.LeaderboardSource
		keys        app.AnswerKeyRepository
	)

	if cfg.Postgres.URL != "" {
		db := openBun(cfg.Postgres.URL)
		defer db.Close()

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		users = postgres.NewUserRepository(db)
		questions = postgres.NewQuestionRepository(db)
		attempts = postgres.NewAttemptRepository(db)
		credits = postgres.NewCreditRepository(db)
		rewardStore = postgres.NewRewardRepository(db)
		videoStore = postgres.NewVideoRepository(db)
		practice = postgres.NewPracticeRepository(db)
		source = postgres.NewLeaderboardSource(pool)

		loader := postgres.NewAnswerKeyLoader(pool)
		if redisClient != nil {
			keys = rediscache.NewAnswerKeyCache(redisClient, loader, answerKeyTTL)
		} else {
			keys = memory.NewAnswerKeyCache(loader, answerKeyTTL)
		}
		log.Info("using postgres backend", "redis", redisClient != nil)
	} else {
		store := memory.NewStore()
		seedMemory(store)

		users = store.Users()
		questions = store
		attempts = store
		credits = store
		rewardStore = store.Rewards()
		videoStore = store.Videos()
		practice = store
		source = store
		keys = memory.NewAnswerKeyCache(store, answerKeyTTL)
		log.Info("no postgres configured, using in-memory store with demo data")
	}

	var snapshots app.SnapshotCache
	var sessions app.SessionStore
	if redisClient != nil {
		snapshots = rediscache.NewSnapshotCache(redisClient, snapshotTTL)
		sessions = rediscache.NewSessionStore(redisClient, sessionTTL)
	} else {
		snapshots = memory.NewSnapshotCache(snapshotTTL)
		sessions = memory.NewSessionStore(sessionTTL)
	}

	board := app.NewLeaderboardService(source, snapshots, cfg.Leaderboard.Limit, log)
	auth := app.NewAuthService(users, sessions)
	quizzes := app.NewQuizService(questions, keys, attempts, board, log)
	rewards := app.NewRewardsService(rewardStore, credits, users, board, log)
	videos := app.NewVideoService(videoStore, credits, log)
	tutor := llm.NewScripted()
	practiceSvc := app.NewPracticeService(practice, tutor, credits, log)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewServer(auth, quizzes, rewards, board, videos, practiceSvc, log).Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting learning service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.Server.Env == "dev" {
		return slog.New(slogcustom.NewCustomHandler(os.Stdout, slog.LevelDebug))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
