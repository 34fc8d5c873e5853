package storage

import (
	"time"

	"github.com/bodyfit-ai/bodyfit/internal/session"
	"github.com/patrickmn/go-cache"
)

// DefaultTTL is how long an untouched session is kept
const DefaultTTL = 30 * time.Minute

// Factory builds a new session for id
type Factory func(id string) *session.Session

// SessionStore holds one upload session per visitor. Sessions expire after
// ttl without access and are closed when evicted.
type SessionStore struct {
	sessions *cache.Cache
	factory  Factory
}

func New(ttl time.Duration, factory Factory) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := cache.New(ttl, ttl/2)
	c.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*session.Session); ok {
			s.Close()
		}
	})
	return &SessionStore{
		sessions: c,
		factory:  factory,
	}
}

// Get returns the session for sessionID and refreshes its expiry
func (s *SessionStore) Get(sessionID string) (*session.Session, bool) {
	x, found := s.sessions.Get(sessionID)
	if !found {
		return nil, false
	}
	sess := x.(*session.Session)
	s.sessions.Set(sessionID, sess, cache.DefaultExpiration)
	return sess, true
}

// GetOrCreate returns the session for sessionID, creating it if missing.
// The bool reports whether a new session was created.
func (s *SessionStore) GetOrCreate(sessionID string) (*session.Session, bool) {
	if sess, ok := s.Get(sessionID); ok {
		return sess, false
	}

	// an expired entry under the same id would otherwise be overwritten
	// without being closed
	s.sessions.DeleteExpired()

	sess := s.factory(sessionID)
	if err := s.sessions.Add(sessionID, sess, cache.DefaultExpiration); err != nil {
		// lost a race with a concurrent request for the same id
		sess.Close()
		if existing, ok := s.Get(sessionID); ok {
			return existing, false
		}
		sess = s.factory(sessionID)
		s.sessions.Set(sessionID, sess, cache.DefaultExpiration)
	}
	return sess, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.sessions.Delete(sessionID)
}

func (s *SessionStore) Count() int {
	return s.sessions.ItemCount()
}

// Flush closes and removes every session
func (s *SessionStore) Flush() {
	for id := range s.sessions.Items() {
		s.sessions.Delete(id)
	}
}
