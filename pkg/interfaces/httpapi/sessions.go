package httpapi

import (
	"errors"
	"sync"
	"time"

	"github.com/vsinha/repair-configurator/pkg/application/services"
	"github.com/vsinha/repair-configurator/pkg/domain/repositories"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/events"
	"github.com/vsinha/repair-configurator/pkg/infrastructure/logging"
)

// ErrSessionNotFound is returned for unknown or expired session ids
var ErrSessionNotFound = errors.New("session not found")

// session serializes access to one configurator
type session struct {
	mu           sync.Mutex
	configurator *services.Configurator
	lastSeen     time.Time
}

// SessionStore keeps one configurator per client session. All sessions
// share the immutable price repository and the event store.
type SessionStore struct {
	repo   repositories.PriceRepository
	config services.ConfiguratorConfig
	store  events.EventStore
	logger *logging.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewSessionStore creates an empty store
func NewSessionStore(
	repo repositories.PriceRepository,
	config services.ConfiguratorConfig,
	store events.EventStore,
	logger *logging.Logger,
) *SessionStore {
	logger = logging.OrNop(logger)
	if store == nil {
		store = events.NewInMemoryEventStore(logger)
	}
	return &SessionStore{
		repo:     repo,
		config:   config,
		store:    store,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Create starts a new session
func (s *SessionStore) Create() (*services.Configurator, error) {
	c, err := services.NewConfigurator(s.repo, s.config, s.store, s.logger)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[c.ID()] = &session{configurator: c, lastSeen: s.now()}
	s.mu.Unlock()

	return c, nil
}

// With runs fn with exclusive access to a session's configurator
func (s *SessionStore) With(id string, fn func(c *services.Configurator) error) error {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()
	return fn(sess.configurator)
}

// Delete ends a session and drops its event stream
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	s.dropEvents(id)
	return true
}

func (s *SessionStore) dropEvents(id string) {
	if err := s.store.DeleteStream(id); err != nil {
		s.logger.Warn("failed to delete session events", "session", id, "error", err)
	}
}

// Len returns the number of open sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Prune drops sessions idle for longer than maxIdle and returns how many were dropped
func (s *SessionStore) Prune(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			s.dropEvents(id)
			pruned++
		}
	}
	if pruned > 0 {
		s.logger.Info("pruned idle sessions", "count", pruned, "remaining", len(s.sessions))
	}
	return pruned
}
