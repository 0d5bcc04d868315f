// Package session holds the client's authentication state: a bearer token
// and the username it belongs to, persisted across restarts.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/mealplanner/mealplanner/pkg/domain"
)

// ErrIncomplete is returned by SetSession when either field is empty.
var ErrIncomplete = errors.New("session: token and username are both required")

// Store is the single source of truth for whether a user is logged in.
// The zero value is not usable; construct with New.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	logger  *slog.Logger
	current *domain.Session
	loaded  bool
}

// New returns a store over backend. The persisted record is read lazily on
// first access, or eagerly via Load.
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{backend: backend, logger: logger}
}

// Load re-reads the persisted record. A missing, unreadable or partial record
// leaves the store logged out.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
}

func (s *Store) load() {
	s.loaded = true
	s.current = nil

	data, err := s.backend.Read()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("session storage unavailable", "error", err)
		}
		return
	}
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.Warn("session record unreadable", "error", err)
		return
	}
	if !sess.Valid() {
		s.logger.Warn("ignoring partial session record")
		return
	}
	s.current = &sess
}

func (s *Store) snapshot() *domain.Session {
	s.mu.RLock()
	if s.loaded {
		cur := s.current
		s.mu.RUnlock()
		return cur
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.load()
	}
	return s.current
}

// IsAuthenticated reports whether a complete session is stored.
func (s *Store) IsAuthenticated() bool {
	return s.snapshot() != nil
}

// Token returns the stored bearer token.
func (s *Store) Token() (string, bool) {
	if cur := s.snapshot(); cur != nil {
		return cur.Token, true
	}
	return "", false
}

// User returns the stored username.
func (s *Store) User() (string, bool) {
	if cur := s.snapshot(); cur != nil {
		return cur.Username, true
	}
	return "", false
}

// Session returns a copy of the stored session.
func (s *Store) Session() (domain.Session, bool) {
	if cur := s.snapshot(); cur != nil {
		return *cur, true
	}
	return domain.Session{}, false
}

// SetSession persists token and username together in one write.
func (s *Store) SetSession(token, username string) error {
	sess := domain.Session{Token: token, Username: username}
	if !sess.Valid() {
		return ErrIncomplete
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session.SetSession: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Write(data); err != nil {
		return fmt.Errorf("session.SetSession: %w", err)
	}
	s.current = &sess
	s.loaded = true
	s.logger.Info("session stored", "username", username)
	return nil
}

// Clear removes the session. Calling it without a session is a no-op.
// The in-memory state is cleared even if the backend fails.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.loaded = true
	if err := s.backend.Remove(); err != nil {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}
