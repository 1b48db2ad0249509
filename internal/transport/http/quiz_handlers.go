package http

import (
	"net/http"
	"strconv"

	"learnquest-service/internal/domain"
)

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.quizzes.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quizzes)
}

func (s *Server) handleQuizQuestions(w http.ResponseWriter, r *http.Request) {
	quizID, err := urlParamInt64(r, "quizID")
	if err != nil {
		writeValidation(w, "invalid quiz id")
		return
	}
	questions, err := s.quizzes.Questions(r.Context(), quizID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, questions)
}

func (s *Server) handlePracticeQuestions(w http.ResponseWriter, r *http.Request) {
	filter := domain.QuestionFilter{
		Category:   r.URL.Query().Get("category"),
		Difficulty: domain.Difficulty(r.URL.Query().Get("difficulty")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeValidation(w, "invalid limit")
			return
		}
		filter.Limit = limit
	}
	questions, err := s.quizzes.Practice(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, questions)
}

type submitRequest struct {
	QuizID  int64                     `json:"quizId"`
	Answers []domain.AnswerSubmission `json:"answers"`
}

func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	session, _ := sessionFrom(r.Context())
	result, err := s.quizzes.Submit(r.Context(), session.UserID, req.QuizID, req.Answers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuizHistory(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	attempts, err := s.quizzes.History(r.Context(), session.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attempts)
}

type resetRequest struct {
	QuizID int64 `json:"quizId"`
	UserID int64 `json:"userId,omitempty"`
}

func (s *Server) handleResetQuiz(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	session, _ := sessionFrom(r.Context())
	targetUser := req.UserID
	if targetUser == 0 {
		targetUser = session.UserID
	}
	if err := s.quizzes.Reset(r.Context(), targetUser, session.Role, req.QuizID); err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
