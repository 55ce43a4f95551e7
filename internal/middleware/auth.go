package middleware

import (
	"context"
	"net/http"

	"github.com/HosMercury/auth-login/internal/identity"
	"github.com/HosMercury/auth-login/internal/session"
)

// unexported, collision-proof context key
type identityContextKeyType struct{}

var identityKey = identityContextKeyType{}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) (*identity.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*identity.Identity)
	return ident, ok
}

type AuthMiddleware struct {
	Binder *session.Binder
}

func NewAuthMiddleware(binder *session.Binder) *AuthMiddleware {
	return &AuthMiddleware{Binder: binder}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Read session cookie
		cookie, err := r.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 2. Resolve token -> identity. Expiry, credential-change
		// invalidation, and orphan cleanup all happen inside Resolve.
		ident, err := a.Binder.Resolve(r.Context(), cookie.Value)
		if err != nil {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		if ident == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 3. Attach identity to context
		ctx := context.WithValue(r.Context(), identityKey, ident)

		// 4. Continue request
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
