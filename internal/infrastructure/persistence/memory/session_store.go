// Package memory provides in-process fallbacks for infrastructure that
// is optional in a deployment. Used when Redis is disabled; sessions do
// not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pediforte/registry/internal/domain/admin"
)

type sessionEntry struct {
	adminID   string
	expiresAt time.Time
}

// SessionStore implements admin.SessionStore with an in-process map.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
}

// NewSessionStore creates a new in-memory SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]sessionEntry)}
}

// Create issues a new session token for the admin.
func (s *SessionStore) Create(_ context.Context, adminID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Opportunistic cleanup keeps the map from growing unbounded.
	now := time.Now()
	for t, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, t)
		}
	}

	s.sessions[token] = sessionEntry{
		adminID:   adminID,
		expiresAt: now.Add(ttl),
	}
	return token, nil
}

// Get resolves a token to an admin id.
func (s *SessionStore) Get(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", admin.ErrSessionNotFound
	}
	return entry.adminID, nil
}

// Delete revokes a token. Unknown tokens are a no-op.
func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
