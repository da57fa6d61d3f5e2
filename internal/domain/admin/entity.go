// Package admin contains the admin-identity domain model. Admins publish
// rules documents and hold the session-gated privileges of the API.
package admin

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pediforte/registry/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrAdminNotFound - admin does not exist.
	ErrAdminNotFound = shared.NewDomainError("admin", "Find", shared.ErrNotFound, "admin not found")

	// ErrAdminAlreadyExists - username or email is taken.
	ErrAdminAlreadyExists = shared.NewDomainError("admin", "Create", shared.ErrAlreadyExists, "admin username or email already exists")

	// ErrInvalidCredentials - login failed.
	ErrInvalidCredentials = shared.NewDomainError("admin", "Login", shared.ErrUnauthorized, "invalid credentials")

	// ErrInvalidUsername - username out of bounds.
	ErrInvalidUsername = shared.NewDomainError("admin", "Validate", shared.ErrInvalidInput, "username must be 3-80 chars")

	// ErrWeakPassword - password below the minimum length.
	ErrWeakPassword = shared.NewDomainError("admin", "Validate", shared.ErrInvalidInput, "password must be at least 8 chars")

	// ErrSessionNotFound - session token is unknown or expired.
	ErrSessionNotFound = shared.NewDomainError("admin", "Session", shared.ErrUnauthorized, "session not found or expired")
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Admin is an administrative identity.
type Admin struct {
	// ID is the internal unique identifier (UUID string).
	ID string

	Username string
	Email    string

	// PasswordHash is a bcrypt hash; the plaintext is never stored.
	PasswordHash string

	CreatedAt time.Time
}

// NewAdmin creates an admin with a bcrypt-hashed password.
func NewAdmin(id, username, email, password string) (*Admin, error) {
	if id == "" {
		return nil, shared.NewDomainError("admin", "Create", shared.ErrInvalidID, "admin id is required")
	}

	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 80 {
		return nil, ErrInvalidUsername
	}

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("admin", "Validate", shared.ErrInvalidInput, "a valid email address is required")
	}

	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.WrapError("admin", "Create", shared.ErrInvalidInput, "failed to hash password", err)
	}

	return &Admin{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func (a *Admin) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}
