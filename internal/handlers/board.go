package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/logger"
	"github.com/goalmate/amatta/internal/models"
	"github.com/goalmate/amatta/internal/todolist"
)

// BoardHandler serves the per-user split of active and completed todos.
type BoardHandler struct {
	boards *todolist.Boards
	log    *zap.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boards *todolist.Boards, log *zap.Logger) *BoardHandler {
	return &BoardHandler{boards: boards, log: log}
}

// RegisterRoutes registers board routes on the given router.
// The router should already have the /board prefix.
func (h *BoardHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Get).Methods("GET")
	r.HandleFunc("/complete", h.Complete).Methods("POST")
	r.HandleFunc("/completed/{id}", h.RemoveCompleted).Methods("DELETE")
}

// BoardResponse is the two-list board body.
type BoardResponse struct {
	Active    []models.Todo `json:"active"`
	Completed []models.Todo `json:"completed"`
}

// Get returns both lists, always re-fetching from the remote service.
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	board, _, ok := h.board(w, r, false)
	if !ok {
		return
	}

	if err := board.Refresh(r.Context()); err != nil {
		h.log.Error("board_refresh_failed",
			zap.String("error", logger.SanitizeError(err)))
		respondError(w, http.StatusBadGateway, "Failed to fetch todos")
		return
	}

	respondJSON(w, http.StatusOK, boardResponse(board))
}

// Complete moves one todo from active to completed.
func (h *BoardHandler) Complete(w http.ResponseWriter, r *http.Request) {
	board, _, ok := h.board(w, r, true)
	if !ok {
		return
	}

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := board.Complete(r.Context(), id); err != nil {
		h.log.Error("board_complete_failed",
			zap.Int("todo_id", id),
			zap.String("error", logger.SanitizeError(err)))
		respondError(w, http.StatusBadGateway, "Failed to complete todo")
		return
	}

	respondJSON(w, http.StatusOK, boardResponse(board))
}

// RemoveCompleted drops one item from the completed list.
func (h *BoardHandler) RemoveCompleted(w http.ResponseWriter, r *http.Request) {
	board, _, ok := h.board(w, r, true)
	if !ok {
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := board.RemoveCompleted(r.Context(), id); err != nil {
		h.log.Error("board_remove_completed_failed",
			zap.Int("todo_id", id),
			zap.String("error", logger.SanitizeError(err)))
		respondError(w, http.StatusBadGateway, "Failed to remove todo")
		return
	}

	respondJSON(w, http.StatusOK, boardResponse(board))
}

// board resolves the user's collection. With fill set, a first-seen user
// gets an initial remote fetch so mutations act on populated lists.
func (h *BoardHandler) board(w http.ResponseWriter, r *http.Request, fill bool) (*todolist.Collection, bool, bool) {
	userID, err := strconv.Atoi(r.URL.Query().Get("userId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "userId is required")
		return nil, false, false
	}

	board, created := h.boards.Get(userID)
	if created && fill {
		if err := h.initialRefresh(r.Context(), board); err != nil {
			respondError(w, http.StatusBadGateway, "Failed to fetch todos")
			return nil, false, false
		}
	}
	return board, created, true
}

func (h *BoardHandler) initialRefresh(ctx context.Context, board *todolist.Collection) error {
	if err := board.Refresh(ctx); err != nil {
		h.log.Error("board_initial_refresh_failed",
			zap.String("error", logger.SanitizeError(err)))
		return err
	}
	return nil
}

func boardResponse(board *todolist.Collection) BoardResponse {
	resp := BoardResponse{
		Active:    board.Active(),
		Completed: board.Completed(),
	}
	if resp.Active == nil {
		resp.Active = []models.Todo{}
	}
	if resp.Completed == nil {
		resp.Completed = []models.Todo{}
	}
	return resp
}
