package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/logger"
	"github.com/goalmate/amatta/internal/session"
	"github.com/goalmate/amatta/internal/todolist"
)

// SessionHandler exposes the search session lifecycle over HTTP. Sessions
// live in memory on this server and are addressed by opaque ids.
type SessionHandler struct {
	manager *session.Manager
	boards  *todolist.Boards
	log     *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(manager *session.Manager, boards *todolist.Boards, log *zap.Logger) *SessionHandler {
	return &SessionHandler{manager: manager, boards: boards, log: log}
}

// RegisterRoutes registers session routes on the given router.
// The router should already have the /sessions prefix.
func (h *SessionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}", h.Get).Methods("GET")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	r.HandleFunc("/{id}/messages", h.Submit).Methods("POST")
	r.HandleFunc("/{id}/retry", h.Retry).Methods("POST")
	r.HandleFunc("/{id}/accept", h.Accept).Methods("POST")
}

type createSessionRequest struct {
	UserID int `json:"userId" validate:"required"`
}

type submitRequest struct {
	Text string `json:"text"`
}

type acceptResponse struct {
	Added   bool  `json:"added"`
	ToastMs int64 `json:"toastMs"`
}

// Create opens a new idle session for a user.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil || req.UserID == 0 {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	id, _ := h.manager.Create(req.UserID)
	respondJSON(w, http.StatusCreated, map[string]string{"sessionId": id})
}

// Get returns the session's observable state.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess.Snapshot())
}

// Submit runs one user utterance through the session.
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := sess.Submit(r.Context(), req.Text)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// Retry excludes the current result and asks for another one.
func (h *SessionHandler) Retry(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	state, err := sess.Retry(r.Context())
	if err != nil {
		h.respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// Accept persists the current result as a todo and refreshes the user's
// board so the new item shows up without a separate round trip.
func (h *SessionHandler) Accept(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := sess.Accept(r.Context()); err != nil {
		if errors.Is(err, session.ErrInvalidPhase) || errors.Is(err, session.ErrBusy) {
			h.respondSessionError(w, err)
			return
		}
		h.log.Error("session_accept_failed",
			zap.Int("user_id", sess.UserID()),
			zap.String("error", logger.SanitizeError(err)))
		respondError(w, http.StatusBadGateway, "Failed to add todo")
		return
	}

	// Best effort; the board endpoint re-fetches on demand anyway.
	board, _ := h.boards.Get(sess.UserID())
	if err := board.RefreshActive(r.Context()); err != nil {
		h.log.Warn("board_refresh_after_accept_failed",
			zap.Int("user_id", sess.UserID()),
			zap.String("error", logger.SanitizeError(err)))
	}

	respondJSON(w, http.StatusOK, acceptResponse{
		Added:   true,
		ToastMs: session.ToastDuration.Milliseconds(),
	})
}

// Delete cancels and removes the session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.manager.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := h.manager.Get(mux.Vars(r)["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (h *SessionHandler) respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrEmptyQuery):
		respondError(w, http.StatusBadRequest, "text is required")
	case errors.Is(err, session.ErrBusy):
		respondError(w, http.StatusConflict, "lookup already in flight")
	case errors.Is(err, session.ErrInvalidPhase):
		respondError(w, http.StatusConflict, "operation not valid in current phase")
	default:
		respondError(w, http.StatusInternalServerError, "Session operation failed")
	}
}
