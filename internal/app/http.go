package app

import (
	"context"

	"github.com/HosMercury/auth-login/internal/auth"
	"github.com/HosMercury/auth-login/internal/auth/handler"
	"github.com/HosMercury/auth-login/internal/config"
	"github.com/HosMercury/auth-login/internal/identity"
	"github.com/HosMercury/auth-login/internal/middleware"
	"github.com/HosMercury/auth-login/internal/session"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------
	// Everything is constructed once here and handed down explicitly;
	// no package-level singletons.

	identityStore := identity.NewPostgresStore(infra.DB)
	sessionStore := session.NewRedisStore(infra.Redis.Client)

	authService := auth.NewService(identityStore)
	binder := session.NewBinder(
		sessionStore,
		identityStore,
		cfg.SessionInactivityTimeout,
	)

	authHandler := handler.NewHandler(authService, binder)
	authMiddleware := middleware.NewAuthMiddleware(binder)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	authHandler.RegisterRoutes(router, authMiddleware)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/", func(c *gin.Context) {
		c.String(200, "hello")
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if err := infra.Redis.Close(); err != nil {
			return err
		}
		return infra.DB.Close()
	}, nil
}
