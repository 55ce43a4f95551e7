package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/HosMercury/auth-login/internal/auth"
	"github.com/HosMercury/auth-login/internal/logger"
	"github.com/HosMercury/auth-login/internal/session"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Next     string `form:"next" json:"next"`
}

// Login authenticates submitted credentials and binds a new session.
// On success the client is redirected to the validated `next` target,
// or to "/" when none was given.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ident, err := h.authService.Authenticate(
		c.Request.Context(),
		req.Username,
		req.Password,
	)

	if errors.Is(err, auth.ErrBackendUnavailable) {
		logger.Error("login: credential store unreachable", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "try again later"})
		return
	}
	if err != nil {
		// Unknown username and wrong password answer identically.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	sess, err := h.binder.Begin(c.Request.Context(), ident)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	session.SetCookie(
		c.Writer,
		sess.SessionID,
		sess.ExpiresAt,
		session.CookieOptions{
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		},
	)

	logger.Info("login success", map[string]any{
		"user_id": ident.ID.String(),
		"ip":      c.ClientIP(),
	})

	c.Redirect(http.StatusFound, safeNext(req.Next))
}

// LoginPage renders a minimal login form. `next` from the query string is
// carried through the form so the post-login redirect survives.
func (h *Handler) LoginPage(c *gin.Context) {
	next := safeNext(c.Query("next"))

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, `<html><body>
<form method="post" action="/login">
<input type="text" name="username" placeholder="username">
<input type="password" name="password" placeholder="password">
<input type="hidden" name="next" value="%s">
<button type="submit">Login</button>
</form>
</body></html>`, next)
}

// safeNext validates a post-login redirect target. Only same-origin relative
// paths pass; anything else falls back to "/" so the login endpoint cannot
// be abused as an open redirect.
func safeNext(next string) string {
	if next == "" {
		return "/"
	}
	if !strings.HasPrefix(next, "/") {
		return "/"
	}
	// "//host" and "/\host" are scheme-relative redirects in browsers.
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	if strings.ContainsAny(next, "\r\n") {
		return "/"
	}
	return next
}
