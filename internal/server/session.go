package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-onboarding/pkg/form"
	"github.com/goliatone/go-onboarding/pkg/render"
)

// Session is one visitor's registration attempt.
type Session struct {
	ID         string
	CSRF       string
	Controller *form.Controller

	expires time.Time
}

// SessionHooks observe the session population.
type SessionHooks interface {
	SessionOpened()
	SessionClosed()
}

// SessionStore keeps sessions in memory. Every successful lookup pushes the
// expiry out by the TTL.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session

	ttl           time.Duration
	now           func() time.Time
	newController func(id string) *form.Controller
	hooks         SessionHooks
}

// NewSessionStore builds a store whose sessions expire after ttl of
// inactivity. newController is called once per session.
func NewSessionStore(ttl time.Duration, newController func(id string) *form.Controller, hooks SessionHooks) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore{
		sessions:      make(map[string]*Session),
		ttl:           ttl,
		now:           time.Now,
		newController: newController,
		hooks:         hooks,
	}
}

// Create opens a new session with a fresh CSRF token.
func (s *SessionStore) Create() (*Session, error) {
	token, err := render.NewCSRFToken()
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	session := &Session{
		ID:         id,
		CSRF:       token,
		Controller: s.newController(id),
	}

	s.mu.Lock()
	session.expires = s.now().Add(s.ttl)
	s.sessions[id] = session
	s.mu.Unlock()

	if s.hooks != nil {
		s.hooks.SessionOpened()
	}
	return session, nil
}

// Get returns the live session for id. An expired session is dropped.
func (s *SessionStore) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	now := s.now()
	if !now.Before(session.expires) {
		delete(s.sessions, id)
		s.mu.Unlock()
		s.closed(1)
		return nil, false
	}
	session.expires = now.Add(s.ttl)
	s.mu.Unlock()
	return session, true
}

// Sweep drops every expired session and reports how many went.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if !now.Before(session.expires) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.mu.Unlock()

	s.closed(removed)
	return removed
}

// Len reports the number of sessions held, expired ones included until the
// next Get or Sweep.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) closed(n int) {
	if s.hooks == nil {
		return
	}
	for i := 0; i < n; i++ {
		s.hooks.SessionClosed()
	}
}
