package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/logger"
	"github.com/goalmate/amatta/internal/models"
	"github.com/goalmate/amatta/internal/services/recommend"
)

// Phase is the search session state
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseSearching Phase = "searching"
	PhaseFound     Phase = "found"
)

// System messages surfaced in the chat transcript. The locale strings are
// fixed; internationalization is out of scope.
const (
	msgUnintelligible = "도와드리기 어려운 요청이에요🙏"
	msgNoResults      = "검색 결과가 없습니다"
)

// ToastDuration is how long the host should show the confirmation toast
// after a successful accept.
const ToastDuration = 2 * time.Second

var (
	// ErrBusy rejects a submit or retry while a lookup is in flight and
	// an accept while another accept is; operations are not reentrant.
	ErrBusy = errors.New("session: operation already in flight")

	// ErrInvalidPhase rejects an operation not valid in the current phase.
	ErrInvalidPhase = errors.New("session: operation not valid in current phase")

	// ErrEmptyQuery rejects blank input.
	ErrEmptyQuery = errors.New("session: empty query")
)

// Recommender is the slice of the recommendation client the session needs.
type Recommender interface {
	Recommend(ctx context.Context, userID int, userInput string) (models.Recommendation, error)
	ExcludeProduct(ctx context.Context, userID int, category, link string) (json.RawMessage, error)
	AddTodo(ctx context.Context, req recommend.AddTodoRequest) (json.RawMessage, error)
}

// Enricher decorates a recommendation with preview metadata, best-effort.
type Enricher interface {
	EnrichRecommendation(ctx context.Context, rec *models.Recommendation)
}

// State is a read-only snapshot of a session.
type State struct {
	Phase        Phase                  `json:"phase"`
	PendingQuery string                 `json:"pendingQuery,omitempty"`
	Messages     []models.Message       `json:"messages"`
	Result       *models.Recommendation `json:"result,omitempty"`
}

// Session sequences one user utterance through idle -> searching -> found
// and back. Invariant: result is set if and only if phase is found.
type Session struct {
	mu sync.Mutex

	userID       int
	phase        Phase
	pendingQuery string
	result       *models.Recommendation
	messages     []models.Message
	generation   uint64
	accepting    bool

	client   Recommender
	enricher Enricher
	log      *zap.Logger
}

// New creates an idle session for userID.
func New(userID int, client Recommender, enricher Enricher, log *zap.Logger) *Session {
	return &Session{
		userID:   userID,
		phase:    PhaseIdle,
		client:   client,
		enricher: enricher,
		log:      log,
	}
}

// Submit runs one free-text utterance through the search flow. Valid only
// from idle; returns ErrBusy while a lookup is in flight and
// ErrInvalidPhase from found (use Retry or Accept there).
func (s *Session) Submit(ctx context.Context, text string) (State, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return s.Snapshot(), ErrEmptyQuery
	}

	s.mu.Lock()
	switch s.phase {
	case PhaseSearching:
		s.mu.Unlock()
		return s.Snapshot(), ErrBusy
	case PhaseFound:
		s.mu.Unlock()
		return s.Snapshot(), ErrInvalidPhase
	}
	s.messages = append(s.messages, models.Message{Text: text, Role: models.MessageRoleUser})
	s.pendingQuery = text
	s.phase = PhaseSearching
	gen := s.generation
	s.mu.Unlock()

	s.search(ctx, text, gen)
	return s.Snapshot(), nil
}

// Retry excludes the currently shown product (best-effort) and re-runs the
// pending query. Valid only from found.
func (s *Session) Retry(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.phase != PhaseFound || s.result == nil {
		s.mu.Unlock()
		return s.Snapshot(), ErrInvalidPhase
	}
	if s.accepting {
		s.mu.Unlock()
		return s.Snapshot(), ErrBusy
	}
	query := s.pendingQuery
	result := *s.result
	s.result = nil
	s.phase = PhaseSearching
	gen := s.generation
	s.mu.Unlock()

	// Exclusion is best-effort: a failure is logged and the retry still
	// proceeds. There is no atomicity across exclude-then-recommend.
	if !result.TaskOnly {
		if _, err := s.client.ExcludeProduct(ctx, s.userID, result.Category, result.URL); err != nil {
			s.log.Warn("exclude_product_failed",
				zap.Int("user_id", s.userID),
				zap.String("category", result.Category),
				zap.String("error", logger.SanitizeError(err)),
			)
		}
	}

	s.search(ctx, query, gen)
	return s.Snapshot(), nil
}

// search performs the remote lookup and finalizes the transition out of
// searching. gen guards against a Cancel that happened mid-flight.
func (s *Session) search(ctx context.Context, query string, gen uint64) {
	rec, err := s.client.Recommend(ctx, s.userID, query)
	if err == nil && s.enricher != nil {
		// Enrichment must never block the transition on failure; the
		// enricher already swallows its own errors.
		s.enricher.EnrichRecommendation(ctx, &rec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		// Session was cancelled while the lookup was in flight.
		return
	}

	switch {
	case err == nil:
		s.result = &rec
		s.phase = PhaseFound
	case errors.Is(err, recommend.ErrUnintelligible):
		s.messages = append(s.messages, models.Message{Text: msgUnintelligible, Role: models.MessageRoleSystem})
		s.phase = PhaseIdle
		s.pendingQuery = ""
	case errors.Is(err, recommend.ErrNoMatch):
		s.messages = append(s.messages, models.Message{Text: msgNoResults, Role: models.MessageRoleSystem})
		s.phase = PhaseIdle
		s.pendingQuery = ""
	default:
		// Transport failures are logged but not surfaced in the chat.
		s.log.Warn("recommendation_lookup_failed",
			zap.Int("user_id", s.userID),
			zap.String("user_input", logger.SanitizeQuery(query)),
			zap.String("error", logger.SanitizeError(err)),
		)
		s.phase = PhaseIdle
		s.pendingQuery = ""
	}
}

// Accept persists the current result as a todo. Valid only from found; on
// success the session resets to idle and the host should refresh the
// active list and show a toast for ToastDuration. The remote call runs
// outside the lock so snapshots stay responsive; gen guards against a
// Cancel that happened mid-flight, as in search.
func (s *Session) Accept(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseFound || s.result == nil {
		s.mu.Unlock()
		return ErrInvalidPhase
	}
	if s.accepting {
		s.mu.Unlock()
		return ErrBusy
	}
	s.accepting = true

	req := recommend.AddTodoRequest{
		Task:   s.result.Title,
		UserID: s.userID,
	}
	if !s.result.TaskOnly {
		req.Link = s.result.URL
		req.Discription = s.result.Description
		req.ImageURL = s.result.ImageURL
	}
	gen := s.generation
	s.mu.Unlock()

	_, err := s.client.AddTodo(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accepting = false
	if err != nil {
		// Leave the session in found so the user can try accepting again.
		return err
	}
	if s.generation == gen {
		s.reset()
	}
	return nil
}

// Cancel forcibly resets to idle and discards any pending state,
// regardless of the current phase.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// reset clears all session state. Callers must hold s.mu.
func (s *Session) reset() {
	s.phase = PhaseIdle
	s.pendingQuery = ""
	s.result = nil
	s.messages = nil
	s.generation++
}

// Snapshot returns a copy of the observable session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Phase:        s.phase,
		PendingQuery: s.pendingQuery,
		Messages:     append([]models.Message(nil), s.messages...),
	}
	if st.Messages == nil {
		st.Messages = []models.Message{}
	}
	if s.result != nil {
		rec := *s.result
		st.Result = &rec
	}
	return st
}

// UserID returns the owning user.
func (s *Session) UserID() int { return s.userID }
