package auth

import (
	"context"
	"testing"

	"github.com/HosMercury/auth-login/internal/identity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *identity.MemoryStore) {
	t.Helper()
	store := identity.NewMemoryStore()
	return NewService(store), store
}

func TestAuthenticateSuccess(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Register(ctx, "alice", "Alice", "correct-horse")
	require.NoError(t, err)

	ident, err := svc.Authenticate(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", ident.Username)
	assert.Equal(t, "Alice", ident.DisplayName)
}

func TestAuthenticateNonDisclosure(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Register(ctx, "alice", "Alice", "correct-horse")
	require.NoError(t, err)

	// Wrong password and unknown username must be indistinguishable.
	_, wrongPass := svc.Authenticate(ctx, "alice", "wrong-password")
	_, noUser := svc.Authenticate(ctx, "nobody", "anything")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass, noUser)
}

func TestAuthenticateBackendUnavailable(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	_, err := svc.Register(ctx, "alice", "Alice", "correct-horse")
	require.NoError(t, err)

	store.FailBackend(true)
	defer store.FailBackend(false)

	_, err = svc.Authenticate(ctx, "alice", "correct-horse")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Register(ctx, "alice", "Alice", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ALICE", "Other Alice", "another-pass")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	ident, err := svc.Register(ctx, "alice", "Alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, ident.ID, "new-password-1"))

	_, err = svc.Authenticate(ctx, "alice", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := svc.Authenticate(ctx, "alice", "new-password-1")
	require.NoError(t, err)
	assert.Equal(t, ident.ID, got.ID)
}

func TestChangePasswordUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	err := svc.ChangePassword(ctx, uuid.New(), "new-password-1")
	assert.ErrorIs(t, err, identity.ErrNotFound)
}
