package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jwebster45206/gossip-village/internal/services/queue"
	"github.com/jwebster45206/gossip-village/internal/session"
	"github.com/jwebster45206/gossip-village/pkg/engine"
	"github.com/jwebster45206/gossip-village/pkg/ledger"
)

const maxBodyBytes = 64 << 10

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidAction), errors.Is(err, engine.ErrInvalidTarget):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrInsufficientActionPoints),
		errors.Is(err, engine.ErrSimulationInProgress),
		errors.Is(err, engine.ErrGameOver),
		errors.Is(err, engine.ErrNotSimulating),
		errors.Is(err, queue.ErrLocked):
		return http.StatusConflict
	case engine.IsOracleFailure(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail logs server-side failures and writes the mapped status.
func fail(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "error", err, "status", status)
	} else {
		logger.Debug("Request rejected", "error", err, "status", status)
	}
	writeError(w, logger, status, err.Error())
}

func pathID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Warn("Invalid game ID", "id", raw, "error", err)
		writeError(w, logger, http.StatusBadRequest, "Invalid game ID format")
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, logger *slog.Logger, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, logger, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}
	return true
}
