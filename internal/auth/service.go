package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/HosMercury/auth-login/internal/auth/credentials"
	"github.com/HosMercury/auth-login/internal/identity"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrBackendUnavailable means the credential store could not be reached.
	// Distinct from ErrInvalidCredentials so the transport layer does not
	// tell a user "wrong password" during an outage.
	ErrBackendUnavailable = errors.New("auth: backend unavailable")

	ErrAlreadyRegistered = errors.New("auth: username already taken")
)

// Service verifies submitted credentials against the identity store.
// It is stateless per call; construct it once and share it.
type Service struct {
	identities identity.Store
}

func NewService(identities identity.Store) *Service {
	return &Service{identities: identities}
}

// Authenticate looks up the username and verifies the password against the
// stored hash. It has no side effects beyond the read.
func (s *Service) Authenticate(
	ctx context.Context,
	username string,
	password string,
) (*identity.Identity, error) {

	ident, err := s.identities.ByUsername(ctx, username)

	if errors.Is(err, identity.ErrNotFound) {
		// Hide whether the user exists. Burn a hash anyway so a lookup
		// miss is not observably faster than a wrong password.
		_, _, _ = credentials.HashPassword("0000000000000000")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if err := credentials.VerifyPassword(ident.CredentialSecret, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return ident, nil
}

// Register creates a new identity with a hashed password.
func (s *Service) Register(
	ctx context.Context,
	username string,
	displayName string,
	password string,
) (*identity.Identity, error) {

	hash, version, err := credentials.HashPassword(password)
	if err != nil {
		return nil, err
	}

	ident, err := s.identities.Create(ctx, username, displayName, hash, version)

	if errors.Is(err, identity.ErrUsernameTaken) {
		return nil, ErrAlreadyRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return ident, nil
}

// ChangePassword replaces the stored hash. Every session created before this
// call carries a snapshot of the old hash and stops resolving.
func (s *Service) ChangePassword(
	ctx context.Context,
	id uuid.UUID,
	newPassword string,
) error {

	hash, version, err := credentials.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.identities.SetPassword(ctx, id, hash, version)

	if errors.Is(err, identity.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return nil
}
