package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/HosMercury/auth-login/internal/identity"
	"github.com/HosMercury/auth-login/internal/logger"

	"github.com/google/uuid"
)

// Binder maps opaque session tokens to identities. A session resolves only
// while it is unexpired and its auth basis still matches the identity's
// current credential secret; anything else reads as anonymous.
type Binder struct {
	store             Store
	identities        identity.Store
	inactivityTimeout time.Duration

	// now is swapped out by tests to control expiry.
	now func() time.Time
}

func NewBinder(
	store Store,
	identities identity.Store,
	inactivityTimeout time.Duration,
) *Binder {
	if inactivityTimeout <= 0 {
		inactivityTimeout = 24 * time.Hour
	}
	return &Binder{
		store:             store,
		identities:        identities,
		inactivityTimeout: inactivityTimeout,
		now:               time.Now,
	}
}

// Begin creates and persists a session for an authenticated identity.
// The returned token is the only value that may reach the client.
func (b *Binder) Begin(
	ctx context.Context,
	ident *identity.Identity,
) (Session, error) {

	if ident == nil {
		return Session{}, errors.New("session: nil identity")
	}

	token, err := GenerateID()
	if err != nil {
		return Session{}, err
	}

	sess := Session{
		SessionID: token,
		UserID:    ident.ID.String(),
		AuthBasis: ident.CredentialSecret,
		ExpiresAt: b.now().Add(b.inactivityTimeout),
	}

	if err := b.store.Create(ctx, sess); err != nil {
		return Session{}, err
	}

	return sess, nil
}

// Resolve maps a token back to its identity.
//
// A missing, expired, orphaned, or invalidated session yields (nil, nil):
// those are expected anonymous states, not failures. A non-nil error means
// a store call itself failed. On success the expiry slides forward by the
// inactivity window.
func (b *Binder) Resolve(
	ctx context.Context,
	token string,
) (*identity.Identity, error) {

	if token == "" {
		return nil, nil
	}

	sess, err := b.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	if b.now().After(sess.ExpiresAt) {
		_ = b.store.Delete(ctx, token)
		return nil, nil
	}

	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		// Unparseable record; treat like an orphan.
		_ = b.store.Delete(ctx, token)
		return nil, nil
	}

	ident, err := b.identities.ByID(ctx, userID)
	if errors.Is(err, identity.ErrNotFound) {
		// User deleted out from under the session.
		_ = b.store.Delete(ctx, token)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare(
		[]byte(sess.AuthBasis),
		[]byte(ident.CredentialSecret),
	) != 1 {
		// The password changed after this session was created. Dropping
		// the record here is what revokes every pre-change session.
		_ = b.store.Delete(ctx, token)
		logger.Info("session invalidated by credential change", map[string]any{
			"user_id": sess.UserID,
		})
		return nil, nil
	}

	sess.ExpiresAt = b.now().Add(b.inactivityTimeout)
	if err := b.store.Update(ctx, *sess); err != nil {
		// The session is still valid; a failed extension only means the
		// old expiry stands.
		logger.Warn("session expiry extension failed", map[string]any{
			"error": err.Error(),
		})
	}

	return ident, nil
}

// End deletes the session. Ending an absent session is not an error.
func (b *Binder) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return b.store.Delete(ctx, token)
}
