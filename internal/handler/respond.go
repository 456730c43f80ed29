package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sambright/nestegg/internal/ledger"
	"github.com/sambright/nestegg/internal/repository"
	"github.com/sambright/nestegg/internal/service"
	"github.com/sambright/nestegg/internal/validation"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps the engine's error taxonomy onto HTTP statuses: missing
// goals/weeks/entries are 404, rejected input is 422, anything else is an
// internal error that gets logged.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, service.ErrWeekNotFound),
		errors.Is(err, ledger.ErrEntryNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	case errors.Is(err, validation.ErrValidation),
		errors.Is(err, service.ErrLastGoal):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "internal error",
		})
	}
}

// parseDate accepts RFC 3339 timestamps or plain dates.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
