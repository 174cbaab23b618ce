package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jwebster45206/gossip-village/internal/session"
	"github.com/jwebster45206/gossip-village/pkg/engine"
	"github.com/jwebster45206/gossip-village/pkg/state"
)

type CreateGameRequest struct {
	Mode   string `json:"mode"`
	Locale string `json:"locale,omitempty"`
}

type ActionRequest struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	TargetID string `json:"targetId,omitempty"`
}

type ActionResponse struct {
	GameState     *state.GameState            `json:"gameState"`
	Interrogation *engine.InterrogationResult `json:"interrogation,omitempty"`
}

type UndoResponse struct {
	GameState *state.GameState `json:"gameState"`
	Refunded  int              `json:"refunded"`
}

type EndPhaseResponse struct {
	RequestID string           `json:"requestId"`
	GameState *state.GameState `json:"gameState"`
}

// GameHandler exposes the player operations over HTTP.
type GameHandler struct {
	sessions *session.Service
	logger   *slog.Logger
}

func NewGameHandler(sessions *session.Service, logger *slog.Logger) *GameHandler {
	return &GameHandler{sessions: sessions, logger: logger}
}

// Register mounts the game routes on mux.
func (h *GameHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/games", h.handleCreate)
	mux.HandleFunc("GET /v1/games/{id}", h.handleRead)
	mux.HandleFunc("DELETE /v1/games/{id}", h.handleDelete)
	mux.HandleFunc("POST /v1/games/{id}/actions", h.handleAction)
	mux.HandleFunc("POST /v1/games/{id}/undo", h.handleUndo)
	mux.HandleFunc("POST /v1/games/{id}/end-phase", h.handleEndPhase)
	mux.HandleFunc("POST /v1/games/{id}/newspaper/close", h.handleCloseNewspaper)
	mux.HandleFunc("GET /v1/archive", h.handleArchive)
}

func (h *GameHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}
	gs, err := h.sessions.Start(r.Context(), state.GameMode(req.Mode), req.Locale)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, gs)
}

func (h *GameHandler) handleRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}
	gs, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}

func (h *GameHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		fail(w, h.logger, err)
		return
	}
	h.logger.Info("Game deleted", "game_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) handleAction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}
	var req ActionRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}
	gs, result, err := h.sessions.Act(r.Context(), id, state.ActionType(req.Type), req.Content, req.TargetID)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, ActionResponse{GameState: gs, Interrogation: result})
}

func (h *GameHandler) handleUndo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}
	gs, refunded, err := h.sessions.Undo(r.Context(), id)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, UndoResponse{GameState: gs, Refunded: refunded})
}

func (h *GameHandler) handleEndPhase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}
	gs, requestID, err := h.sessions.RequestEndPhase(r.Context(), id)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusAccepted, EndPhaseResponse{RequestID: requestID, GameState: gs})
}

func (h *GameHandler) handleCloseNewspaper(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}
	gs, err := h.sessions.CloseNewspaper(r.Context(), id)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}

// handleArchive lists finished games. ?limit= caps the result.
func (h *GameHandler) handleArchive(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, h.logger, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	games, err := h.sessions.ListArchive(r.Context(), limit)
	if err != nil {
		fail(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, games)
}
