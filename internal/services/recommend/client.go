package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/logger"
	"github.com/goalmate/amatta/internal/models"
)

// maxResponseBytes bounds how much of an upstream response body is read.
const maxResponseBytes = 1 << 20

// Client is a thin, typed boundary to the remote to-do/recommendation
// service. Every operation translates transport failures and unexpected
// statuses into a *RemoteError; 400 and 404 on Recommend map to their own
// sentinel errors because they are distinct user-facing outcomes.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a client for the given upstream base URL.
func NewClient(baseURL string, log *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
}

// NewClientWithHTTPClient creates a client with a caller-owned HTTP client.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient, log: log}
}

// AddTodoRequest is the body for persisting an accepted recommendation or
// a bare task. Task-only adds carry only Task and UserID; the omitempty
// tags keep the upstream body minimal, and "discription" is the remote
// service's spelling.
type AddTodoRequest struct {
	Action      string `json:"action"`
	Task        string `json:"task"`
	Link        string `json:"link,omitempty"`
	Discription string `json:"discription,omitempty"`
	UserID      int    `json:"userId"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// ListTodos fetches the active or completed list for a user.
func (c *Client) ListTodos(ctx context.Context, userID int, status models.ListStatus) ([]models.Todo, error) {
	endpoint := fmt.Sprintf("%s/api/todos/%s/%d", c.baseURL, status, userID)

	var wire []models.UpstreamTodo
	if err := c.getJSON(ctx, "list_todos", endpoint, &wire); err != nil {
		return nil, err
	}

	todos := make([]models.Todo, 0, len(wire))
	completed := status == models.ListStatusCompleted
	for _, w := range wire {
		todos = append(todos, w.ToTodo(completed))
	}
	return todos, nil
}

// CompleteTodo marks a todo complete on the remote service. The item is
// not removed from remote storage, only moved to the completed list.
func (c *Client) CompleteTodo(ctx context.Context, id int) (models.Todo, error) {
	endpoint := fmt.Sprintf("%s/api/todos/check/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, nil)
	if err != nil {
		return models.Todo{}, &RemoteError{Op: "complete_todo", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	var wire models.UpstreamTodo
	if err := c.do(req, "complete_todo", &wire); err != nil {
		return models.Todo{}, err
	}
	return wire.ToTodo(true), nil
}

// Recommend asks the remote service for a product or task matching the
// user's free text.
func (c *Client) Recommend(ctx context.Context, userID int, userInput string) (models.Recommendation, error) {
	endpoint := fmt.Sprintf("%s/api/todos/recommend?userId=%d&userInput=%s",
		c.baseURL, userID, url.QueryEscape(userInput))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Recommendation{}, &RemoteError{Op: "recommend", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Recommendation{}, &RemoteError{Op: "recommend", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return models.Recommendation{}, ErrUnintelligible
	case http.StatusNotFound:
		return models.Recommendation{}, ErrNoMatch
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Recommendation{}, &RemoteError{Op: "recommend", Status: resp.StatusCode}
	}

	var wire models.UpstreamRecommendation
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return models.Recommendation{}, &RemoteError{Op: "recommend", Err: err}
	}

	rec := wire.ToRecommendation()
	c.log.Debug("recommendation_received",
		zap.Int("user_id", userID),
		zap.String("user_input", logger.SanitizeQuery(userInput)),
		zap.Bool("task_only", rec.TaskOnly),
	)
	return rec, nil
}

// ExcludeProduct tells the remote service to never resurface this product
// for this category again. Used before a retry; fire-and-forget from the
// caller's perspective. The upstream acknowledgement body is returned
// verbatim so the proxy can forward it.
func (c *Client) ExcludeProduct(ctx context.Context, userID int, category, link string) (json.RawMessage, error) {
	body := map[string]any{
		"userId":   userID,
		"category": category,
		"link":     link,
	}
	var payload json.RawMessage
	if err := c.postJSON(ctx, "exclude_product", c.baseURL+"/api/todos/exclude", body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// AddTodo persists an accepted recommendation or a bare task and returns
// the upstream response body verbatim.
func (c *Client) AddTodo(ctx context.Context, req AddTodoRequest) (json.RawMessage, error) {
	req.Action = "add"
	var payload json.RawMessage
	if err := c.postJSON(ctx, "add_todo", c.baseURL+"/api/todos", req, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// DeleteTodo removes a todo from remote storage. Only used when completed
// removal is configured as remote.
func (c *Client) DeleteTodo(ctx context.Context, id int) error {
	endpoint := c.baseURL + "/api/todos/" + strconv.Itoa(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return &RemoteError{Op: "delete_todo", Err: err}
	}
	return c.do(req, "delete_todo", nil)
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op, out)
}

func (c *Client) postJSON(ctx context.Context, op, endpoint string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op, out)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &RemoteError{Op: op, Status: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	// Some mutation endpoints acknowledge with an empty body.
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	return nil
}
