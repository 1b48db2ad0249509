package http

import (
	"net/http"

	"learnquest-service/internal/domain"
)

type startScenarioRequest struct {
	Category   string            `json:"category,omitempty"`
	Difficulty domain.Difficulty `json:"difficulty,omitempty"`
}

func (s *Server) handleStartScenario(w http.ResponseWriter, r *http.Request) {
	var req startScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	session, _ := sessionFrom(r.Context())
	scenario, err := s.practice.Start(r.Context(), session.UserID, req.Category, req.Difficulty)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, scenario)
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	scenarios, err := s.practice.Scenarios(r.Context(), session.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, scenarios)
}

func (s *Server) handleScenarioMessages(w http.ResponseWriter, r *http.Request) {
	scenarioID, err := urlParamInt64(r, "scenarioID")
	if err != nil {
		writeValidation(w, "invalid scenario id")
		return
	}
	session, _ := sessionFrom(r.Context())
	messages, err := s.practice.Messages(r.Context(), session.UserID, scenarioID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	scenarioID, err := urlParamInt64(r, "scenarioID")
	if err != nil {
		writeValidation(w, "invalid scenario id")
		return
	}
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	if req.Message == "" {
		writeValidation(w, "message must not be empty")
		return
	}
	session, _ := sessionFrom(r.Context())
	messages, err := s.practice.Send(r.Context(), session.UserID, scenarioID, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

type completeScenarioRequest struct {
	Score int `json:"score"`
}

type completeScenarioResponse struct {
	BonusAwarded int `json:"bonusAwarded"`
}

func (s *Server) handleCompleteScenario(w http.ResponseWriter, r *http.Request) {
	scenarioID, err := urlParamInt64(r, "scenarioID")
	if err != nil {
		writeValidation(w, "invalid scenario id")
		return
	}
	var req completeScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	session, _ := sessionFrom(r.Context())
	bonus, err := s.practice.Complete(r.Context(), session.UserID, scenarioID, req.Score)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, completeScenarioResponse{BonusAwarded: bonus})
}

func (s *Server) handleWeakAreas(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	areas, err := s.practice.WeakAreas(r.Context(), session.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, areas)
}
