package memory

import (
	"context"
	"sync"
	"time"

	"learnquest-service/internal/domain"
)

// SessionStore keeps login sessions in process memory with a fixed TTL.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.RWMutex
	sessions map[string]storedSession
}

type storedSession struct {
	session   domain.Session
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]storedSession),
	}
}

func (s *SessionStore) Put(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = storedSession{
		session:   session,
		expiresAt: s.clock().Add(s.ttl),
	}
	return nil
}

func (s *SessionStore) Get(_ context.Context, token string) (domain.Session, bool, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return domain.Session{}, false, nil
	}
	if !entry.expiresAt.After(s.clock()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return domain.Session{}, false, nil
	}
	return entry.session, true, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
