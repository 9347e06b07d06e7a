package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ardenlim/stockpoint/internal/core/domain"
)

// Session is the live authenticated identity plus its bearer token.
// Replaced wholesale on re-login, never mutated in place.
type Session struct {
	Identity domain.Identity `json:"identity"`
	Token    string          `json:"token"`
}

// SessionStore holds at most one session for the process and keeps a
// durable JSON copy so a restart resumes authenticated. Only the login
// and forced-logout paths write to it.
type SessionStore struct {
	mu      sync.Mutex
	path    string
	current *Session
}

// NewSessionStore loads any persisted session from path. A missing or
// unreadable file just means starting unauthenticated.
func NewSessionStore(path string) *SessionStore {
	s := &SessionStore{path: path}
	if raw, err := os.ReadFile(path); err == nil {
		var sess Session
		if json.Unmarshal(raw, &sess) == nil && sess.Token != "" {
			s.current = &sess
		}
	}
	return s
}

// Establish installs a new session, superseding any prior one, and
// persists it durably.
func (s *SessionStore) Establish(identity domain.Identity, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{Identity: identity, Token: token}
	if err := s.persist(sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.current = sess
	return nil
}

// Clear removes the session and its durable copy. Idempotent; the
// return value reports whether a live session was actually removed,
// which is what lets concurrent expiry signals collapse to one
// teardown.
func (s *SessionStore) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	had := s.current != nil
	s.current = nil
	if s.path != "" {
		_ = os.Remove(s.path)
	}
	return had
}

// Current returns the live session, or nil when unauthenticated. The
// returned pointer is a copy; callers cannot mutate store state.
func (s *SessionStore) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	sess := *s.current
	return &sess
}

func (s *SessionStore) persist(sess *Session) error {
	if s.path == "" {
		return nil
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, raw, 0o600)
}
