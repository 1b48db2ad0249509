package http

import (
	"net/http"
	"strconv"
)

func (s *Server) handleListRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := s.rewards.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rewards)
}

type redeemRequest struct {
	RewardID int64 `json:"rewardId"`
}

func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	session, _ := sessionFrom(r.Context())
	result, err := s.rewards.Redeem(r.Context(), session.UserID, req.RewardID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRedemptions(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	redemptions, err := s.rewards.Redemptions(r.Context(), session.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, redemptions)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	transactions, err := s.rewards.Transactions(r.Context(), session.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeValidation(w, "invalid limit")
			return
		}
		limit = parsed
	}
	board, err := s.leaderboard.TopN(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}
