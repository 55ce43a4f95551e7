package session

import (
	"context"
	"time"
)

// Session binds an opaque token to a user across requests.
//
// AuthBasis is a copy of the user's credential secret taken when the session
// was created. Resolving a session compares it against the current secret;
// a password change makes every older session stop resolving without any
// per-user session registry.
type Session struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	AuthBasis string    `json:"auth_basis"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store defines how sessions are stored and retrieved. Implementations must
// honor ExpiresAt as a TTL so the store itself drops stale records even if
// no one resolves them again.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
