package http

import (
	"net/http"

	"learnquest-service/internal/domain"
)

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.videos.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, videos)
}

func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := urlParamInt64(r, "videoID")
	if err != nil {
		writeValidation(w, "invalid video id")
		return
	}
	video, err := s.videos.Get(r.Context(), videoID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, video)
}

func (s *Server) handleVideoCheckpoints(w http.ResponseWriter, r *http.Request) {
	videoID, err := urlParamInt64(r, "videoID")
	if err != nil {
		writeValidation(w, "invalid video id")
		return
	}
	checkpoints, err := s.videos.Checkpoints(r.Context(), videoID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, checkpoints)
}

type progressRequest struct {
	VideoID   int64 `json:"videoId"`
	Position  int   `json:"currentTime"`
	Completed bool  `json:"completed"`
}

func (s *Server) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	session, _ := sessionFrom(r.Context())
	progress, err := s.videos.SaveProgress(r.Context(), session.UserID, req.VideoID, req.Position, req.Completed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

type checkpointAnswerRequest struct {
	VideoID      int64               `json:"videoId"`
	CheckpointID int64               `json:"checkpointId"`
	Selected     domain.OptionLetter `json:"selectedAnswer"`
}

func (s *Server) handleAnswerCheckpoint(w http.ResponseWriter, r *http.Request) {
	var req checkpointAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidation(w, "invalid request body")
		return
	}
	session, _ := sessionFrom(r.Context())
	result, err := s.videos.AnswerCheckpoint(r.Context(), session.UserID, req.VideoID, req.CheckpointID, req.Selected)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
