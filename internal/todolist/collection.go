package todolist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/config"
	"github.com/goalmate/amatta/internal/logger"
	"github.com/goalmate/amatta/internal/models"
)

// Client is the slice of the recommendation client the collection needs.
type Client interface {
	ListTodos(ctx context.Context, userID int, status models.ListStatus) ([]models.Todo, error)
	CompleteTodo(ctx context.Context, id int) (models.Todo, error)
	DeleteTodo(ctx context.Context, id int) error
}

// ListEnricher decorates freshly fetched todos with page metadata. It
// mutates the slice in place and handles its own pacing and failures.
type ListEnricher interface {
	EnrichTodos(ctx context.Context, todos []models.Todo)
}

// Option configures a Collection.
type Option func(*Collection)

// WithEnricher runs the enricher over the active list on every refresh,
// filling in preview images for items that arrived without one.
func WithEnricher(e ListEnricher) Option {
	return func(c *Collection) { c.enricher = e }
}

// Collection holds the two observable lists for one user. The remote
// service is the system of record; this is a read-through cache that is
// optimistically updated and reconciled by wholesale re-fetches.
type Collection struct {
	mu        sync.Mutex
	userID    int
	active    []models.Todo
	completed []models.Todo
	removing  map[int]bool

	client      Client
	enricher    ListEnricher
	removeDelay time.Duration
	removalMode config.CompletedRemovalMode
	log         *zap.Logger
}

// New creates an empty collection for userID. removeDelay matches the
// removal animation on the rendering surface, not a network concern.
func New(userID int, client Client, removeDelay time.Duration, removalMode config.CompletedRemovalMode, log *zap.Logger, opts ...Option) *Collection {
	c := &Collection{
		userID:      userID,
		removing:    make(map[int]bool),
		client:      client,
		removeDelay: removeDelay,
		removalMode: removalMode,
		log:         log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh fetches both lists from the remote service. The two fetches run
// concurrently with no ordering dependency; the refresh waits for both.
func (c *Collection) Refresh(ctx context.Context) error {
	var (
		wg                     sync.WaitGroup
		active, completed      []models.Todo
		activeErr, completeErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		active, activeErr = c.client.ListTodos(ctx, c.userID, models.ListStatusActive)
	}()
	go func() {
		defer wg.Done()
		completed, completeErr = c.client.ListTodos(ctx, c.userID, models.ListStatusCompleted)
	}()
	wg.Wait()

	if activeErr != nil {
		return fmt.Errorf("refresh active list: %w", activeErr)
	}
	if completeErr != nil {
		return fmt.Errorf("refresh completed list: %w", completeErr)
	}
	c.enrich(ctx, active)

	c.mu.Lock()
	c.active = active
	c.completed = completed
	c.mu.Unlock()
	return nil
}

// RefreshActive re-fetches only the active list (after an accepted add).
func (c *Collection) RefreshActive(ctx context.Context) error {
	active, err := c.client.ListTodos(ctx, c.userID, models.ListStatusActive)
	if err != nil {
		return fmt.Errorf("refresh active list: %w", err)
	}
	c.enrich(ctx, active)

	c.mu.Lock()
	c.active = active
	c.mu.Unlock()
	return nil
}

// enrich fills preview metadata on a freshly fetched list before it is
// published. Runs outside the lock; only active items carry links worth
// decorating, so completed lists are stored as fetched.
func (c *Collection) enrich(ctx context.Context, todos []models.Todo) {
	if c.enricher == nil {
		return
	}
	c.enricher.EnrichTodos(ctx, todos)
}

// Complete marks an active item complete: the item is flagged as removing
// (optimistic, presentation-only), the remote call is made, and on success
// the item leaves the active list after the removal delay while the
// completed list is replaced wholesale from the remote service. On failure
// the flag is cleared and the active list is left unchanged; there is no
// automatic retry.
func (c *Collection) Complete(ctx context.Context, id int) error {
	c.mu.Lock()
	if !c.inActive(id) {
		c.mu.Unlock()
		return fmt.Errorf("todo %d is not in the active list", id)
	}
	c.removing[id] = true
	c.mu.Unlock()

	if _, err := c.client.CompleteTodo(ctx, id); err != nil {
		c.mu.Lock()
		delete(c.removing, id)
		c.mu.Unlock()
		return err
	}

	sleep(ctx, c.removeDelay)

	c.mu.Lock()
	c.active = dropByID(c.active, id)
	delete(c.removing, id)
	c.mu.Unlock()

	// Full list replace, no incremental merge. A failed re-fetch keeps the
	// stale completed list until the next refresh.
	completed, err := c.client.ListTodos(ctx, c.userID, models.ListStatusCompleted)
	if err != nil {
		c.log.Warn("completed_list_refresh_failed",
			zap.Int("user_id", c.userID),
			zap.String("error", logger.SanitizeError(err)),
		)
		return nil
	}

	c.mu.Lock()
	c.completed = completed
	c.mu.Unlock()
	return nil
}

// RemoveCompleted removes an item from the completed view. In local mode
// this is a pure client-side filter and the item reappears on the next
// full refresh; in remote mode the item is also deleted upstream and the
// completed list re-fetched.
func (c *Collection) RemoveCompleted(ctx context.Context, id int) error {
	c.mu.Lock()
	c.removing[id] = true
	c.mu.Unlock()

	if c.removalMode == config.CompletedRemovalRemote {
		if err := c.client.DeleteTodo(ctx, id); err != nil {
			c.mu.Lock()
			delete(c.removing, id)
			c.mu.Unlock()
			return err
		}
	}

	sleep(ctx, c.removeDelay)

	c.mu.Lock()
	c.completed = dropByID(c.completed, id)
	delete(c.removing, id)
	c.mu.Unlock()

	if c.removalMode == config.CompletedRemovalRemote {
		completed, err := c.client.ListTodos(ctx, c.userID, models.ListStatusCompleted)
		if err != nil {
			c.log.Warn("completed_list_refresh_failed",
				zap.Int("user_id", c.userID),
				zap.String("error", logger.SanitizeError(err)),
			)
			return nil
		}
		c.mu.Lock()
		c.completed = completed
		c.mu.Unlock()
	}
	return nil
}

// Active returns a copy of the active list.
func (c *Collection) Active() []models.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Todo(nil), c.active...)
}

// Completed returns a copy of the completed list.
func (c *Collection) Completed() []models.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Todo(nil), c.completed...)
}

// Removing reports whether an item is flagged for removal.
func (c *Collection) Removing(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removing[id]
}

// inActive reports membership in the active list. Callers must hold c.mu.
func (c *Collection) inActive(id int) bool {
	for _, t := range c.active {
		if t.ID == id {
			return true
		}
	}
	return false
}

func dropByID(todos []models.Todo, id int) []models.Todo {
	out := todos[:0]
	for _, t := range todos {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
