package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"learnquest-service/internal/app"
)

// Server bundles the app services behind the JSON API.
type Server struct {
	auth        *app.AuthService
	quizzes     *app.QuizService
	rewards     *app.RewardsService
	leaderboard *app.LeaderboardService
	videos      *app.VideoService
	practice    *app.PracticeService
	log         *slog.Logger
}

func NewServer(
	auth *app.AuthService,
	quizzes *app.QuizService,
	rewards *app.RewardsService,
	leaderboard *app.LeaderboardService,
	videos *app.VideoService,
	practice *app.PracticeService,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		auth:        auth,
		quizzes:     quizzes,
		rewards:     rewards,
		leaderboard: leaderboard,
		videos:      videos,
		practice:    practice,
		log:         log,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.log))
	r.Use(recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/ws/leaderboard", s.handleLeaderboardWS)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		r.Get("/quiz/list", s.handleListQuizzes)
		r.Get("/quiz/practice", s.handlePracticeQuestions)
		r.Get("/quiz/{quizID}/questions", s.handleQuizQuestions)
		r.Get("/rewards/list", s.handleListRewards)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/videos", s.handleListVideos)
		r.Get("/videos/{videoID}", s.handleGetVideo)
		r.Get("/videos/{videoID}/checkpoints", s.handleVideoCheckpoints)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)
			r.Post("/auth/logout", s.handleLogout)

			r.Post("/quiz/submit", s.handleSubmitQuiz)
			r.Get("/quiz/history", s.handleQuizHistory)
			r.Post("/quiz/reset", s.handleResetQuiz)

			r.Post("/rewards/redeem", s.handleRedeem)
			r.Get("/rewards/redemptions", s.handleRedemptions)
			r.Get("/rewards/transactions", s.handleTransactions)

			r.Post("/videos/progress", s.handleSaveProgress)
			r.Post("/videos/answer", s.handleAnswerCheckpoint)

			r.Post("/practice/scenarios", s.handleStartScenario)
			r.Get("/practice/scenarios", s.handleListScenarios)
			r.Get("/practice/scenarios/{scenarioID}/messages", s.handleScenarioMessages)
			r.Post("/practice/scenarios/{scenarioID}/messages", s.handleSendMessage)
			r.Post("/practice/scenarios/{scenarioID}/complete", s.handleCompleteScenario)
			r.Get("/practice/weak-areas", s.handleWeakAreas)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func urlParamInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
