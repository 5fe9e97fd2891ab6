package auth

import (
	"context"
	"sync"
	"time"
)

// Session is one successful login.
type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// SessionStore keeps the sessions that are currently valid.
type SessionStore interface {
	// Save records a session.
	Save(ctx context.Context, session Session) error

	// Get returns the session with the given id or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete revokes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}

// InMemorySessionStore holds sessions for the lifetime of the process.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// Ensure InMemorySessionStore implements SessionStore interface
var _ SessionStore = (*InMemorySessionStore)(nil)

// NewInMemorySessionStore creates an empty session store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]Session),
	}
}

// Save implements SessionStore.
func (s *InMemorySessionStore) Save(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// Get implements SessionStore.
func (s *InMemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// Delete implements SessionStore.
func (s *InMemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
