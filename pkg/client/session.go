// Package client provides an HTTP client for the user service: it attaches
// the access token to every request, transparently refreshes it once when a
// request comes back 401, and exposes route-guard helpers driven by the
// session state.
package client

import (
	"encoding/json"
	"os"
	"sync"
)

// User is the client-side snapshot of the authenticated user
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
}

// Session holds the access token and user snapshot for the current session.
// The refresh token never appears here: it lives only in the http-only cookie.
type Session struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user,omitempty"`
}

// Authenticated reports whether the session carries both a token and a user
func (s Session) Authenticated() bool {
	return s.AccessToken != "" && s.User != nil
}

// SessionStore defines read/write access to the persisted session state
type SessionStore interface {
	// Session returns the current session; an empty session means logged out.
	Session() Session
	// SetSession replaces the whole session.
	SetSession(session Session)
	// SetAccessToken replaces only the access token, keeping the user snapshot.
	SetAccessToken(token string)
	// Clear drops the session.
	Clear()
}

// MemoryStore is an in-memory session store safe for concurrent use
type MemoryStore struct {
	mu      sync.RWMutex
	session Session
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *MemoryStore) SetSession(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

func (s *MemoryStore) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.AccessToken = token
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{}
}

// FileStore persists the session as a JSON file. A missing or corrupt file
// reads as a logged-out session instead of failing.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a session store backed by the given file path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *FileStore) SetSession(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(session)
}

func (s *FileStore) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.load()
	session.AccessToken = token
	s.save(session)
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	os.Remove(s.path)
}

func (s *FileStore) load() Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Session{}
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		// Corrupt state is treated as logged out
		return Session{}
	}

	return session
}

func (s *FileStore) save(session Session) {
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	os.WriteFile(s.path, data, 0o600)
}
