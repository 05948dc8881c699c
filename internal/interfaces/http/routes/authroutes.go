package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/deskhub/internal/interfaces/http/handlers"
	"github.com/orris-inc/deskhub/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for the sign-in routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

// SetupAuthRoutes registers the /auth group. Register, login and both OAuth legs are
// on the public allowlist; logout and me need a live session.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	h := cfg.AuthHandler
	throttled := cfg.RateLimiter.Limit()
	signedIn := cfg.AuthMiddleware.RequireAuth()

	auth := engine.Group("/auth")
	auth.POST("/register", throttled, h.Register)
	auth.POST("/login", throttled, h.Login)
	auth.POST("/logout", signedIn, h.Logout)
	auth.GET("/me", signedIn, h.GetCurrentUser)

	google := auth.Group("/oauth/google")
	google.GET("", h.InitiateOAuth)
	google.GET("/callback", h.HandleOAuthCallback)
}
