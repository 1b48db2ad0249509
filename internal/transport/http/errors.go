// Package http is the JSON transport: a chi router over the app services,
// with a single error mapper from domain sentinels to the wire envelope.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"learnquest-service/internal/domain"
)

const (
	codeNotFound     = "NOT_FOUND"
	codeValidation   = "VALIDATION_ERROR"
	codeInsufficient = "INSUFFICIENT_CREDITS"
	codeForbidden    = "FORBIDDEN"
	codeUnauthorized = "UNAUTHORIZED"
	codeInternal     = "INTERNAL_ERROR"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// writeError maps domain sentinels to status/code and writes the envelope.
// Unknown errors are logged and masked as INTERNAL_ERROR.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := loggerFrom(r.Context())

	status, code := http.StatusInternalServerError, codeInternal
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrRewardNotFound),
		errors.Is(err, domain.ErrAttemptNotFound),
		errors.Is(err, domain.ErrVideoNotFound),
		errors.Is(err, domain.ErrCheckpointNotFound),
		errors.Is(err, domain.ErrScenarioNotFound):
		status, code = http.StatusNotFound, codeNotFound
	case errors.Is(err, domain.ErrInvalidAnswers),
		errors.Is(err, domain.ErrNoQuestions),
		errors.Is(err, domain.ErrAlreadyCompleted):
		status, code = http.StatusBadRequest, codeValidation
	case errors.Is(err, domain.ErrInsufficientCredits):
		status, code = http.StatusBadRequest, codeInsufficient
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, codeForbidden
	case errors.Is(err, domain.ErrSessionNotFound):
		status, code = http.StatusUnauthorized, codeUnauthorized
	}

	message := err.Error()
	if status >= 500 {
		log.Error("request failed", "error", err)
		message = "internal server error"
	} else {
		log.Warn("request rejected", "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: errorBody{Code: codeUnauthorized, Message: message}})
}

func writeValidation(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: errorBody{Code: codeValidation, Message: message}})
}
