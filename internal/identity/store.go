package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("identity: not found")
	ErrUsernameTaken = errors.New("identity: username already taken")
)

// Store persists identities. Lookups return ErrNotFound for a missing record;
// any other error means the backend itself failed.
type Store interface {
	ByUsername(ctx context.Context, username string) (*Identity, error)
	ByID(ctx context.Context, id uuid.UUID) (*Identity, error)
	Create(ctx context.Context, username, displayName, secret, hashVersion string) (*Identity, error)
	SetPassword(ctx context.Context, id uuid.UUID, secret, hashVersion string) error
}
