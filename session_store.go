package ewallet

import (
	"context"
	"errors"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// SessionRepository persists the session record across reloads. The
// repository package provides a Bun-backed implementation.
type SessionRepository interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Clear(ctx context.Context) error
}

// SessionStore holds the canonical session record. Reads are served from
// memory; writes go through the repository first so a crash between write
// and navigation can never produce an authenticated view without a
// persisted session.
type SessionStore struct {
	mu      sync.RWMutex
	current *Session
	repo    SessionRepository
	logger  Logger
}

func NewSessionStore(repo SessionRepository) *SessionStore {
	return &SessionStore{
		repo:   repo,
		logger: defLogger{},
	}
}

func (s *SessionStore) WithLogger(logger Logger) *SessionStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Restore loads the persisted record into memory, typically once at start.
// A missing record is not an error; it leaves the store empty.
func (s *SessionStore) Restore(ctx context.Context) (*Session, error) {
	session, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	return session, nil
}

// Current returns the in-memory session, or nil when unauthenticated.
func (s *SessionStore) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the session wholesale, persisting before the in-memory
// swap. On persistence failure the previous session stays active.
func (s *SessionStore) Set(ctx context.Context, session *Session) error {
	if err := s.repo.Save(ctx, session); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not persist session")
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	return nil
}

// Clear destroys the session record on logout or terminal expiry.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Warn("session store clear error: %v", err)
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	return nil
}
