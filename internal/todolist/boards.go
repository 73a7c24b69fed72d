package todolist

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/config"
)

// Boards hands out one collection per user.
type Boards struct {
	mu          sync.Mutex
	collections map[int]*Collection

	client      Client
	removeDelay time.Duration
	removalMode config.CompletedRemovalMode
	log         *zap.Logger
	opts        []Option
}

// NewBoards creates an empty board registry. Options are passed through
// to every collection it creates.
func NewBoards(client Client, removeDelay time.Duration, removalMode config.CompletedRemovalMode, log *zap.Logger, opts ...Option) *Boards {
	return &Boards{
		collections: make(map[int]*Collection),
		client:      client,
		removeDelay: removeDelay,
		removalMode: removalMode,
		log:         log,
		opts:        opts,
	}
}

// Get returns the collection for userID, creating it on first use. The
// caller is responsible for the initial Refresh.
func (b *Boards) Get(userID int) (*Collection, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.collections[userID]; ok {
		return c, false
	}
	c := New(userID, b.client, b.removeDelay, b.removalMode, b.log, b.opts...)
	b.collections[userID] = c
	return c, true
}
