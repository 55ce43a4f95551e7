package handler

import (
	"errors"
	"net/http"

	"github.com/HosMercury/auth-login/internal/auth"
	"github.com/HosMercury/auth-login/internal/middleware"
	"github.com/HosMercury/auth-login/internal/session"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username    string `form:"username" json:"username"`
	DisplayName string `form:"display_name" json:"display_name"`
	Password    string `form:"password" json:"password"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ident, err := h.authService.Register(
		c.Request.Context(),
		req.Username,
		req.DisplayName,
		req.Password,
	)

	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
		case errors.Is(err, auth.ErrBackendUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "try again later"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	// Registration logs the new user straight in.
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

	c.JSON(http.StatusCreated, gin.H{"status": "registered"})
}

type changePasswordRequest struct {
	NewPassword string `form:"new_password" json:"new_password"`
}

// ChangePassword replaces the caller's password. Every other session the
// user holds was created against the old hash and stops resolving.
func (h *Handler) ChangePassword(c *gin.Context) {
	ident, ok := middleware.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.authService.ChangePassword(
		c.Request.Context(),
		ident.ID,
		req.NewPassword,
	); err != nil {
		if errors.Is(err, auth.ErrBackendUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "try again later"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The caller's own session also carried the old basis; clear the
	// cookie so they log in again rather than hitting a dead session.
	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.JSON(http.StatusOK, gin.H{"status": "password_changed"})
}
