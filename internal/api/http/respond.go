// Package http exposes the stay lifecycle over a JSON REST API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// respondError maps the domain error taxonomy onto HTTP statuses. 423 Locked
// is reserved for writes against a closed business date.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrLockedPeriod):
		status = http.StatusLocked
	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrUnavailable),
		errors.Is(err, domain.ErrFolioClosed):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrMissingRoom):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

func respondBadRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
