package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager tracks live sessions by opaque id. Each session is owned by a
// single UI surface; there is no cross-session sharing.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	client   Recommender
	enricher Enricher
	log      *zap.Logger
}

// NewManager creates an empty session manager.
func NewManager(client Recommender, enricher Enricher, log *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		client:   client,
		enricher: enricher,
		log:      log,
	}
}

// Create starts an idle session for userID and returns its id.
func (m *Manager) Create(userID int) (string, *Session) {
	id := uuid.NewString()
	s := New(userID, m.client, m.enricher, m.log)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.log.Info("session_created",
		zap.String("session_id", id),
		zap.Int("user_id", userID),
	)
	return id, s
}

// Get returns the session for id, if it exists.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove cancels and forgets the session for id.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Cancel()
		m.log.Info("session_removed", zap.String("session_id", id))
	}
}
