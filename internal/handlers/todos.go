package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/logger"
	"github.com/goalmate/amatta/internal/models"
	"github.com/goalmate/amatta/internal/services/recommend"
	"github.com/goalmate/amatta/internal/validation"
)

// TodoProxyHandler forwards the frontend's todo traffic to the remote
// service, preserving the remote wire shapes on the way back.
type TodoProxyHandler struct {
	client *recommend.Client
	log    *zap.Logger
}

// NewTodoProxyHandler creates a new todo proxy handler
func NewTodoProxyHandler(client *recommend.Client, log *zap.Logger) *TodoProxyHandler {
	return &TodoProxyHandler{client: client, log: log}
}

// RegisterRoutes registers todo routes on the given router.
// The router should already have the /todos prefix.
func (h *TodoProxyHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Get).Methods("GET")
	r.HandleFunc("", h.Complete).Methods("PATCH")
	r.HandleFunc("", h.Post).Methods("POST")
}

// MaxUserInputLength bounds free-text recommendation queries.
const MaxUserInputLength = 500

// Get serves both list and recommend lookups. A non-empty userInput
// selects recommend mode regardless of type, matching the frontend's
// calling convention.
func (h *TodoProxyHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("userId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if input := validation.SanitizeText(r.URL.Query().Get("userInput")); input != "" {
		h.recommend(w, r, userID, input)
		return
	}

	listType := r.URL.Query().Get("type")
	if err := validation.ValidateListStatus(listType); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	todos, err := h.client.ListTodos(r.Context(), userID, models.ListStatus(listType))
	if err != nil {
		h.log.Error("list_todos_failed",
			zap.Int("user_id", userID),
			zap.String("type", listType),
			zap.String("error", logger.SanitizeError(err)))
		respondError(w, http.StatusInternalServerError, "Failed to fetch todos")
		return
	}

	wire := make([]models.UpstreamTodo, 0, len(todos))
	for _, t := range todos {
		wire = append(wire, t.ToUpstream())
	}
	respondJSON(w, http.StatusOK, wire)
}

func (h *TodoProxyHandler) recommend(w http.ResponseWriter, r *http.Request, userID int, input string) {
	if len(input) > MaxUserInputLength {
		respondError(w, http.StatusBadRequest, "userInput is too long")
		return
	}

	rec, err := h.client.Recommend(r.Context(), userID, input)
	switch {
	case errors.Is(err, recommend.ErrUnintelligible):
		respondError(w, http.StatusBadRequest, "unintelligible request")
		return
	case errors.Is(err, recommend.ErrNoMatch):
		respondError(w, http.StatusNotFound, "no results")
		return
	case err != nil:
		h.log.Error("recommend_failed",
			zap.Int("user_id", userID),
			zap.String("error", logger.SanitizeError(err)))
		respondError(w, http.StatusInternalServerError, "Failed to fetch recommendation")
		return
	}

	respondJSON(w, http.StatusOK, rec.ToUpstream())
}

// Complete marks a todo done on the remote service and returns the
// updated item in the remote wire shape.
func (h *TodoProxyHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	todo, err := h.client.CompleteTodo(r.Context(), id)
	if err != nil {
		h.log.Error("complete_todo_failed",
			zap.Int("todo_id", id),
			zap.String("error", logger.SanitizeError(err)))
		respondError(w, http.StatusInternalServerError, "Failed to complete todo")
		return
	}

	respondJSON(w, http.StatusOK, todo.ToUpstream())
}

// postTodoRequest is the union body for add and exclude. Action "add"
// persists a todo; anything else is an exclude-and-never-show-again for
// the given category and link.
type postTodoRequest struct {
	Action      string `json:"action"`
	Task        string `json:"task"`
	Link        string `json:"link"`
	Discription string `json:"discription"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
	UserID      int    `json:"userId" validate:"required"`
}

// Post handles adds and exclusions, forwarding the remote response
// body back to the caller.
func (h *TodoProxyHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req postTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if req.Action == "add" {
		if validation.SanitizeText(req.Task) == "" {
			respondError(w, http.StatusBadRequest, "task is required")
			return
		}
		payload, err := h.client.AddTodo(r.Context(), recommend.AddTodoRequest{
			Task:        req.Task,
			Link:        req.Link,
			Discription: req.Discription,
			UserID:      req.UserID,
			ImageURL:    req.ImageURL,
		})
		if err != nil {
			h.log.Error("add_todo_failed",
				zap.Int("user_id", req.UserID),
				zap.String("error", logger.SanitizeError(err)))
			respondError(w, http.StatusInternalServerError, "Failed to add todo")
			return
		}
		forwardPayload(w, payload)
		return
	}

	payload, err := h.client.ExcludeProduct(r.Context(), req.UserID, req.Category, req.Link)
	if err != nil {
		h.log.Error("exclude_product_failed",
			zap.Int("user_id", req.UserID),
			zap.String("error", logger.SanitizeError(err)))
		respondError(w, http.StatusInternalServerError, "Failed to exclude product")
		return
	}
	forwardPayload(w, payload)
}
