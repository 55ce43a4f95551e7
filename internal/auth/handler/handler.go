package handler

import (
	"net/http"

	"github.com/HosMercury/auth-login/internal/auth"
	"github.com/HosMercury/auth-login/internal/logger"
	"github.com/HosMercury/auth-login/internal/middleware"
	"github.com/HosMercury/auth-login/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authService *auth.Service
	binder      *session.Binder
}

func NewHandler(
	authService *auth.Service,
	binder *session.Binder,
) *Handler {
	return &Handler{
		authService: authService,
		binder:      binder,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, authMW *middleware.AuthMiddleware) {
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	r.POST("/logout", h.Logout)
	r.POST("/register", h.Register)

	protected := r.Group("/")
	protected.Use(middleware.GinRequireAuth(authMW))
	protected.GET("/me", h.Me)
	protected.GET("/restricted", h.Restricted)
	protected.POST("/password", h.ChangePassword)
}

// Logout ends the session named by the cookie. Always succeeds from the
// caller's perspective; ending an absent session is fine.
func (h *Handler) Logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		if err := h.binder.End(c.Request.Context(), cookie.Value); err != nil {
			logger.Warn("logout: session delete failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusFound, "/login")
}

// Me reports the resolved identity for the session.
func (h *Handler) Me(c *gin.Context) {
	ident, ok := middleware.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           ident.ID.String(),
		"username":     ident.Username,
		"display_name": ident.DisplayName,
	})
}

// Restricted is the gated resource. Anonymous callers never reach it; the
// middleware rejects them with 401 first.
func (h *Handler) Restricted(c *gin.Context) {
	ident, ok := middleware.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK,
		"<html><body><h1>Restricted</h1><p>Hello, %s!</p></body></html>",
		ident.Username,
	)
}
