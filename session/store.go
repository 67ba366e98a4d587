// Package session owns the opaque auth token for the current user session.
// The token is acquired by the login flow, read on every authenticated
// request, and cleared exactly once when the backend reports it expired.
package session

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// TokenSource is the read side of the session, consumed by the API client.
// An empty string means "no session".
type TokenSource interface {
	Token() string
}

// Store holds the session token, optionally persisted to a file so the CLI
// survives restarts. The zero value is a usable in-memory store.
type Store struct {
	mu      sync.Mutex
	token   string
	path    string // empty for in-memory only
	onClear []func()
}

// NewStore returns an in-memory store seeded with the given token.
func NewStore(token string) *Store {
	return &Store{token: token}
}

// NewFileStore returns a store backed by a token file. A missing file is not
// an error; it simply means no session yet.
func NewFileStore(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	s.token = strings.TrimSpace(string(data))
	return s, nil
}

// Token returns the current token, or "" when there is no session.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Set stores a new token and persists it when the store is file-backed.
func (s *Store) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if s.path == "" {
		return nil
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear drops the token and removes the token file. Clearing an already
// empty store is a no-op: OnClear hooks fire only on the transition from a
// live session to none.
func (s *Store) Clear() error {
	s.mu.Lock()
	had := s.token != ""
	s.token = ""
	hooks := s.onClear
	path := s.path
	s.mu.Unlock()

	if !had {
		return nil
	}
	if path != "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove token file: %w", err)
		}
	}
	for _, fn := range hooks {
		fn()
	}
	return nil
}

// OnClear registers a hook invoked after the session transitions to cleared.
func (s *Store) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClear = append(s.onClear, fn)
}

var _ TokenSource = (*Store)(nil)
