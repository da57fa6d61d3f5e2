package admin

import (
	"context"
	"time"
)

// Repository persists admin identities.
type Repository interface {
	// Create registers a new admin. Returns ErrAdminAlreadyExists when
	// the username or email is taken.
	Create(ctx context.Context, a *Admin) error

	// GetByID resolves an admin, or returns ErrAdminNotFound.
	GetByID(ctx context.Context, id string) (*Admin, error)

	// GetByUsername resolves an admin by username, or ErrAdminNotFound.
	GetByUsername(ctx context.Context, username string) (*Admin, error)

	// Count returns the total number of admins.
	Count(ctx context.Context) (int, error)
}

// SessionStore issues and validates opaque admin session tokens. Tokens
// expire after the configured TTL; Delete is idempotent.
type SessionStore interface {
	Create(ctx context.Context, adminID string, ttl time.Duration) (token string, err error)
	Get(ctx context.Context, token string) (adminID string, err error)
	Delete(ctx context.Context, token string) error
}
