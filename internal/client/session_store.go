package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/clinicore/clinic-scheduler/internal/domain"
)

// SessionListener is notified when the token for a role changes. An empty
// token means the session was cleared.
type SessionListener func(role domain.Role, token string)

// SessionStore holds the current session token per role and persists it
// write-through to a JSON file: every Set and Clear syncs to disk before
// returning, so a process restart immediately after a Clear never observes
// a stale token.
type SessionStore struct {
	path string

	mu        sync.Mutex
	tokens    map[domain.Role]string
	listeners []SessionListener
}

// NewSessionStore opens (or creates) the store backed by the given file.
func NewSessionStore(path string) (*SessionStore, error) {
	s := &SessionStore{
		path:   path,
		tokens: make(map[domain.Role]string),
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.tokens); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Set stores the token for a role and persists before returning.
func (s *SessionStore) Set(role domain.Role, token string) error {
	s.mu.Lock()
	s.tokens[role] = token
	listeners := append([]SessionListener{}, s.listeners...)
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	for _, listener := range listeners {
		listener(role, token)
	}
	return nil
}

// Get returns the current token for a role.
func (s *SessionStore) Get(role domain.Role) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[role]
	return token, ok && token != ""
}

// Clear removes the token for a role and persists before returning.
func (s *SessionStore) Clear(role domain.Role) error {
	s.mu.Lock()
	delete(s.tokens, role)
	listeners := append([]SessionListener{}, s.listeners...)
	err := s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	for _, listener := range listeners {
		listener(role, "")
	}
	return nil
}

// Subscribe registers a change listener. Dependent view state (appointment
// list, profile, dashboard) should invalidate itself on any notification.
func (s *SessionStore) Subscribe(listener SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *SessionStore) persistLocked() error {
	raw, err := json.Marshal(s.tokens)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Clean(s.path))
}
