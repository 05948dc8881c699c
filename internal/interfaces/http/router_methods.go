package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/orris-inc/deskhub/internal/interfaces/http/middleware"
	"github.com/orris-inc/deskhub/internal/interfaces/http/routes"

	_ "github.com/orris-inc/deskhub/docs"
)

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Metrics(r.metrics))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	// Every route below is gated unless its path is on the public allowlist.
	r.engine.Use(r.authMiddleware.Authenticate())

	r.engine.GET("/health", r.hdlrs.healthHandler.HealthCheck)
	r.engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler:    r.hdlrs.authHandler,
		AuthMiddleware: r.authMiddleware,
		RateLimiter:    r.rateLimiter,
	})

	routes.SetupSessionRoutes(r.engine, &routes.SessionRouteConfig{
		SessionHandler: r.hdlrs.sessionHandler,
		AuthMiddleware: r.authMiddleware,
	})
}
