package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pediforte/registry/internal/domain/admin"
	"github.com/pediforte/registry/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN AUTH COMMANDS
// Register, login and logout for admin identities. Login issues an opaque
// session token; the HTTP guard validates it on every admin route.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterAdminCommand contains the data to register an admin.
type RegisterAdminCommand struct {
	Username string
	Email    string
	Password string
}

// Validate validates the command.
func (c RegisterAdminCommand) Validate() error {
	if c.Username == "" || c.Email == "" || c.Password == "" {
		return shared.NewDomainError("admin", "Register", shared.ErrValidation, "username, email and password are required")
	}
	return nil
}

// RegisterAdminHandler handles the RegisterAdminCommand.
type RegisterAdminHandler struct {
	admins admin.Repository
}

// NewRegisterAdminHandler creates a new RegisterAdminHandler.
func NewRegisterAdminHandler(admins admin.Repository) *RegisterAdminHandler {
	return &RegisterAdminHandler{admins: admins}
}

// Handle registers a new admin.
func (h *RegisterAdminHandler) Handle(ctx context.Context, cmd RegisterAdminCommand) (*admin.Admin, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	a, err := admin.NewAdmin(uuid.NewString(), cmd.Username, cmd.Email, cmd.Password)
	if err != nil {
		return nil, err
	}

	if err := h.admins.Create(ctx, a); err != nil {
		if shared.IsAlreadyExists(err) {
			return nil, err
		}
		return nil, fmt.Errorf("register_admin: failed to create admin: %w", err)
	}

	return a, nil
}

// LoginCommand contains admin credentials.
type LoginCommand struct {
	Username string
	Password string
}

// Validate validates the command.
func (c LoginCommand) Validate() error {
	if c.Username == "" || c.Password == "" {
		return shared.NewDomainError("admin", "Login", shared.ErrValidation, "username and password are required")
	}
	return nil
}

// LoginResult contains the authenticated admin and the session token.
type LoginResult struct {
	Admin *admin.Admin
	Token string
}

// LoginHandler handles the LoginCommand.
type LoginHandler struct {
	admins     admin.Repository
	sessions   admin.SessionStore
	sessionTTL time.Duration
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(admins admin.Repository, sessions admin.SessionStore, sessionTTL time.Duration) *LoginHandler {
	return &LoginHandler{admins: admins, sessions: sessions, sessionTTL: sessionTTL}
}

// Handle authenticates an admin and opens a session.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	a, err := h.admins.GetByUsername(ctx, cmd.Username)
	if err != nil {
		if shared.IsNotFound(err) {
			// Same error whether the username or the password is wrong.
			return nil, admin.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: failed to resolve admin: %w", err)
	}

	if !a.CheckPassword(cmd.Password) {
		return nil, admin.ErrInvalidCredentials
	}

	token, err := h.sessions.Create(ctx, a.ID, h.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("login: failed to create session: %w", err)
	}

	return &LoginResult{Admin: a, Token: token}, nil
}

// LogoutHandler closes admin sessions.
type LogoutHandler struct {
	sessions admin.SessionStore
}

// NewLogoutHandler creates a new LogoutHandler.
func NewLogoutHandler(sessions admin.SessionStore) *LogoutHandler {
	return &LogoutHandler{sessions: sessions}
}

// Handle deletes the session token. Deleting an unknown token is a no-op.
func (h *LogoutHandler) Handle(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return h.sessions.Delete(ctx, token)
}
