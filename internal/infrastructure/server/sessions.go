package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/placefolk/internal/application/handlers"
	"github.com/ersonp/placefolk/internal/infrastructure/cache"
	"github.com/ersonp/placefolk/internal/infrastructure/metrics"
)

// Sessions is the registry of live sessions, bounded by least-recent use.
type Sessions struct {
	items   *cache.Cache[*handlers.Session]
	delay   time.Duration
	metrics *metrics.SessionMetrics
}

// NewSessions creates a registry holding at most maxSessions sessions
// (0 means unbounded). New sessions debounce suggestions by suggestDelay.
func NewSessions(maxSessions int, suggestDelay time.Duration, reg *metrics.Registry) *Sessions {
	s := &Sessions{delay: suggestDelay}
	var opts []cache.Option
	if reg != nil {
		opts = append(opts, cache.WithMetrics(reg.Cache, "sessions"))
		s.metrics = reg.Sessions
	}
	s.items = cache.New[*handlers.Session](maxSessions, opts...)
	return s
}

// Create registers a new session under a random id.
func (s *Sessions) Create() *handlers.Session {
	sess := handlers.NewSession(uuid.NewString(), s.delay)
	s.items.Set(sess.ID, sess)
	s.report()
	return sess
}

// Get returns the session with the given id.
func (s *Sessions) Get(id string) (*handlers.Session, bool) {
	return s.items.Get(id)
}

// Close cancels the session's pending work and forgets it.
func (s *Sessions) Close(id string) bool {
	sess, ok := s.items.Get(id)
	if !ok {
		return false
	}
	sess.Close()
	s.items.Delete(id)
	s.report()
	return true
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	return s.items.Len()
}

func (s *Sessions) report() {
	if s.metrics != nil {
		s.metrics.SetActive(s.items.Len())
	}
}
