package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"learnquest-service/internal/app"
	"learnquest-service/internal/domain"
	"learnquest-service/internal/infra/memory"
	"learnquest-service/internal/llm"
)

type testEnv struct {
	store  *memory.Store
	server *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	board := app.NewLeaderboardService(store, nil, 10, log)
	auth := app.NewAuthService(store.Users(), memory.NewSessionStore(time.Hour))
	quizzes := app.NewQuizService(store, store, store, board, log)
	rewards := app.NewRewardsService(store.Rewards(), store, store.Users(), board, log)
	videos := app.NewVideoService(store.Videos(), store, log)
	practice := app.NewPracticeService(store, llm.NewScripted(), store, log)

	srv := httptest.NewServer(NewServer(auth, quizzes, rewards, board, videos, practice, log).Routes())
	t.Cleanup(srv.Close)
	return &testEnv{store: store, server: srv}
}

func (e *testEnv) seedQuiz(t *testing.T) (domain.Quiz, []domain.Question) {
	t.Helper()
	quiz := e.store.AddQuiz(domain.Quiz{Title: "Medical Terminology Basics", CreditsReward: 50}, []domain.Question{
		{Prompt: "q1", CorrectOption: domain.OptionA, Category: "anatomy"},
		{Prompt: "q2", CorrectOption: domain.OptionB, Category: "anatomy"},
		{Prompt: "q3", CorrectOption: domain.OptionC, Category: "pharmacology"},
	})
	questions, err := e.store.Questions(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	return quiz, questions
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func (e *testEnv) login(t *testing.T, name string) (string, domain.User) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"name": name})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status %d", resp.StatusCode)
	}
	var out struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	decodeBody(t, resp, &out)
	return out.Token, out.User
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, resp, &envelope)
	if envelope.Error.Code == "" {
		t.Fatal("expected error envelope")
	}
	return envelope.Error.Code
}

func TestLoginSubmitFlow(t *testing.T) {
	env := newTestEnv(t)
	quiz, questions := env.seedQuiz(t)
	token, user := env.login(t, "Alice")

	// Question listing must not leak the answer key.
	resp := env.do(t, http.MethodGet, "/api/quiz/1/questions", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("questions status %d", resp.StatusCode)
	}
	var raw []map[string]any
	decodeBody(t, resp, &raw)
	if len(raw) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(raw))
	}
	for _, q := range raw {
		if v, ok := q["correctOption"]; ok && v != "" {
			t.Fatalf("question leaked correctOption %v", v)
		}
	}

	// Two of three correct: floor(2/3 * 50) = 33.
	resp = env.do(t, http.MethodPost, "/api/quiz/submit", token, map[string]any{
		"quizId": quiz.ID,
		"answers": []map[string]any{
			{"questionId": questions[0].ID, "selectedAnswer": "A"},
			{"questionId": questions[1].ID, "selectedAnswer": "B"},
			{"questionId": questions[2].ID, "selectedAnswer": "D"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status %d", resp.StatusCode)
	}
	var result domain.SubmitResult
	decodeBody(t, resp, &result)
	if result.Score != 2 || result.TotalQuestions != 3 || result.CreditsEarned != 33 {
		t.Fatalf("unexpected result %+v", result)
	}

	// The balance is visible through /auth/me.
	resp = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	var me domain.User
	decodeBody(t, resp, &me)
	if me.ID != user.ID || me.Credits != 33 {
		t.Fatalf("unexpected me %+v", me)
	}

	// And the attempt through history.
	resp = env.do(t, http.MethodGet, "/api/quiz/history", token, nil)
	var history []domain.Attempt
	decodeBody(t, resp, &history)
	if len(history) != 1 || history[0].CreditsEarned != 33 {
		t.Fatalf("unexpected history %+v", history)
	}

	// A second submission is rejected with the validation envelope.
	resp = env.do(t, http.MethodPost, "/api/quiz/submit", token, map[string]any{
		"quizId":  quiz.ID,
		"answers": []map[string]any{{"questionId": questions[0].ID, "selectedAnswer": "A"}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("resubmit status %d", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %s", code)
	}
}

func TestProtectedRoutesRequireBearerToken(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/quiz/submit", "", map[string]any{"quizId": 1})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED, got %s", code)
	}

	resp = env.do(t, http.MethodGet, "/api/auth/me", "bogus-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bogus token, got %d", resp.StatusCode)
	}
}

func TestErrorEnvelopeCodes(t *testing.T) {
	env := newTestEnv(t)
	env.seedQuiz(t)
	token, _ := env.login(t, "Alice")

	// Unknown quiz reads as NOT_FOUND.
	resp := env.do(t, http.MethodPost, "/api/quiz/submit", token, map[string]any{
		"quizId":  999,
		"answers": []map[string]any{{"questionId": 1, "selectedAnswer": "A"}},
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %s", code)
	}

	// An unaffordable reward reads as INSUFFICIENT_CREDITS.
	reward := env.store.AddReward(domain.Reward{Name: "Parking Pass", CreditCost: 500, Active: true})
	resp = env.do(t, http.MethodPost, "/api/rewards/redeem", token, map[string]any{"rewardId": reward.ID})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "INSUFFICIENT_CREDITS" {
		t.Fatalf("expected INSUFFICIENT_CREDITS, got %s", code)
	}

	// Reset is admin only.
	resp = env.do(t, http.MethodPost, "/api/quiz/reset", token, map[string]any{"quizId": 1})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN, got %s", code)
	}
}

func TestRedeemFlow(t *testing.T) {
	env := newTestEnv(t)
	quiz, questions := env.seedQuiz(t)
	reward := env.store.AddReward(domain.Reward{Name: "Coffee Voucher", CreditCost: 30, Active: true})
	token, _ := env.login(t, "Alice")

	resp := env.do(t, http.MethodPost, "/api/quiz/submit", token, map[string]any{
		"quizId": quiz.ID,
		"answers": []map[string]any{
			{"questionId": questions[0].ID, "selectedAnswer": "A"},
			{"questionId": questions[1].ID, "selectedAnswer": "B"},
			{"questionId": questions[2].ID, "selectedAnswer": "C"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodPost, "/api/rewards/redeem", token, map[string]any{"rewardId": reward.ID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("redeem status %d", resp.StatusCode)
	}
	var result domain.RedeemResult
	decodeBody(t, resp, &result)
	if result.RemainingCredits != 20 {
		t.Fatalf("expected 20 remaining, got %d", result.RemainingCredits)
	}

	resp = env.do(t, http.MethodGet, "/api/rewards/redemptions", token, nil)
	var redemptions []domain.Redemption
	decodeBody(t, resp, &redemptions)
	if len(redemptions) != 1 || redemptions[0].Status != domain.RedemptionPending {
		t.Fatalf("unexpected redemptions %+v", redemptions)
	}

	resp = env.do(t, http.MethodGet, "/api/rewards/transactions", token, nil)
	var txs []domain.CreditTransaction
	decodeBody(t, resp, &txs)
	if len(txs) != 2 || txs[0].Amount != -30 {
		t.Fatalf("unexpected transactions %+v", txs)
	}
}

func TestPracticeScenarioFlow(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.login(t, "Alice")

	resp := env.do(t, http.MethodPost, "/api/practice/scenarios", token, map[string]any{
		"category": "anatomy", "difficulty": "easy",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start status %d", resp.StatusCode)
	}
	var scenario domain.Scenario
	decodeBody(t, resp, &scenario)
	if scenario.Category != "anatomy" || scenario.Text == "" {
		t.Fatalf("unexpected scenario %+v", scenario)
	}

	resp = env.do(t, http.MethodPost, "/api/practice/scenarios/1/messages", token, map[string]any{
		"message": "I would check the patient history first.",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("send status %d", resp.StatusCode)
	}
	var messages []domain.ScenarioMessage
	decodeBody(t, resp, &messages)
	if len(messages) != 2 || messages[1].Role != domain.ScenarioRoleAssistant {
		t.Fatalf("unexpected conversation %+v", messages)
	}

	resp = env.do(t, http.MethodPost, "/api/practice/scenarios/1/complete", token, map[string]any{"score": 90})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete status %d", resp.StatusCode)
	}
	var completion struct {
		BonusAwarded int `json:"bonusAwarded"`
	}
	decodeBody(t, resp, &completion)
	if completion.BonusAwarded != 10 {
		t.Fatalf("expected bonus 10, got %d", completion.BonusAwarded)
	}
}

func TestLeaderboardWebSocket(t *testing.T) {
	env := newTestEnv(t)
	quiz, questions := env.seedQuiz(t)
	token, user := env.login(t, "Alice")

	u := "ws" + env.server.URL[len("http"):] + "/ws/leaderboard"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Primed snapshot arrives on connect.
	typ, board := readBoard(t, conn)
	if typ != "leaderboard" {
		t.Fatalf("expected leaderboard message, got %s", typ)
	}

	// A settlement pushes a fresh snapshot.
	resp := env.do(t, http.MethodPost, "/api/quiz/submit", token, map[string]any{
		"quizId": quiz.ID,
		"answers": []map[string]any{
			{"questionId": questions[0].ID, "selectedAnswer": "A"},
			{"questionId": questions[1].ID, "selectedAnswer": "B"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status %d", resp.StatusCode)
	}

	_, board = readBoard(t, conn)
	if len(board.Rows) != 1 || board.Rows[0].UserID != user.ID || board.Rows[0].TotalScore != 2 {
		t.Fatalf("unexpected pushed snapshot %+v", board.Rows)
	}
}

func readBoard(t *testing.T, conn *websocket.Conn) (string, domain.Leaderboard) {
	t.Helper()
	var msg struct {
		Type    string             `json:"type"`
		Payload domain.Leaderboard `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg.Type, msg.Payload
}
