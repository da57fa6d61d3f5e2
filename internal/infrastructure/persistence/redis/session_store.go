package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pediforte/registry/internal/domain/admin"
)

// SessionStore implements admin.SessionStore on Redis. Tokens are opaque
// UUIDs; the value is the admin id and expiry is delegated to Redis TTL.
type SessionStore struct {
	cache *Cache
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(cache *Cache) *SessionStore {
	return &SessionStore{cache: cache}
}

func sessionKey(token string) string {
	return PrefixSession + token
}

// Create issues a new session token for the admin.
func (s *SessionStore) Create(ctx context.Context, adminID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := s.cache.SetString(ctx, sessionKey(token), adminID, ttl); err != nil {
		return "", fmt.Errorf("session: failed to store token: %w", err)
	}
	return token, nil
}

// Get resolves a token to an admin id. Expired and unknown tokens map to
// admin.ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", admin.ErrSessionNotFound
	}

	adminID, err := s.cache.GetString(ctx, sessionKey(token))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return "", admin.ErrSessionNotFound
		}
		return "", fmt.Errorf("session: failed to load token: %w", err)
	}
	return adminID, nil
}

// Delete revokes a token. Unknown tokens are a no-op.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.cache.Delete(ctx, sessionKey(token))
}
