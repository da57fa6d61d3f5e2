package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pediforte/registry/internal/domain/admin"
	"github.com/pediforte/registry/internal/domain/shared"
)

func TestRegisterAdmin(t *testing.T) {
	admins := newFakeAdmins()
	h := NewRegisterAdminHandler(admins)

	a, err := h.Handle(context.Background(), RegisterAdminCommand{
		Username: "principal",
		Email:    "principal@school.local",
		Password: "long enough pw",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.True(t, a.CheckPassword("long enough pw"))
}

func TestRegisterAdmin_DuplicateUsername(t *testing.T) {
	admins := newFakeAdmins()
	h := NewRegisterAdminHandler(admins)

	_, err := h.Handle(context.Background(), RegisterAdminCommand{
		Username: "principal",
		Email:    "one@school.local",
		Password: "long enough pw",
	})
	assert.NoError(t, err)

	_, err = h.Handle(context.Background(), RegisterAdminCommand{
		Username: "principal",
		Email:    "two@school.local",
		Password: "long enough pw",
	})
	assert.True(t, shared.IsAlreadyExists(err))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	a := testAdmin(t)
	sessions := newFakeSessions()
	h := NewLoginHandler(newFakeAdmins(a), sessions, 0)

	result, err := h.Handle(ctx, LoginCommand{Username: "principal", Password: "long enough pw"})
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, a.ID, result.Admin.ID)

	adminID, err := sessions.Get(ctx, result.Token)
	assert.NoError(t, err)
	assert.Equal(t, a.ID, adminID)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := NewLoginHandler(newFakeAdmins(testAdmin(t)), newFakeSessions(), 0)

	_, err := h.Handle(context.Background(), LoginCommand{Username: "principal", Password: "wrong"})
	assert.ErrorIs(t, err, admin.ErrInvalidCredentials)
}

func TestLogin_UnknownUsername(t *testing.T) {
	// Unknown user and wrong password are indistinguishable to the caller.
	h := NewLoginHandler(newFakeAdmins(), newFakeSessions(), 0)

	_, err := h.Handle(context.Background(), LoginCommand{Username: "ghost", Password: "whatever pw"})
	assert.ErrorIs(t, err, admin.ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	sessions := newFakeSessions()
	token, err := sessions.Create(ctx, "admin-1", 0)
	assert.NoError(t, err)

	h := NewLogoutHandler(sessions)
	assert.NoError(t, h.Handle(ctx, token))

	_, err = sessions.Get(ctx, token)
	assert.ErrorIs(t, err, admin.ErrSessionNotFound)

	// Logging out twice is a no-op.
	assert.NoError(t, h.Handle(ctx, token))
	assert.NoError(t, h.Handle(ctx, ""))
}
