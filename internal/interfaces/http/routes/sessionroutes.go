package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/deskhub/internal/interfaces/http/handlers"
	"github.com/orris-inc/deskhub/internal/interfaces/http/middleware"
)

// SessionRouteConfig holds dependencies for session management routes.
type SessionRouteConfig struct {
	SessionHandler *handlers.SessionHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupSessionRoutes configures the routes a user manages their signed-in devices with.
func SetupSessionRoutes(engine *gin.Engine, cfg *SessionRouteConfig) {
	sessions := engine.Group("/sessions")
	sessions.Use(cfg.AuthMiddleware.RequireAuth())
	{
		sessions.GET("", cfg.SessionHandler.ListSessions)
		sessions.DELETE("", cfg.SessionHandler.RevokeAllSessions)
		sessions.DELETE("/:id", cfg.SessionHandler.RevokeSession)
	}
}
