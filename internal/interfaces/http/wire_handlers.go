package http

import (
	"github.com/orris-inc/deskhub/internal/interfaces/http/handlers"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler  *handlers.HealthHandler
	authHandler    *handlers.AuthHandler
	sessionHandler *handlers.SessionHandler
}

// ============================================================
// Section 3: Handlers
// ============================================================

func (c *Container) initHandlers() {
	log := c.log
	ucs := c.ucs

	var pinger handlers.Pinger
	if sqlDB, err := c.db.DB(); err == nil {
		pinger = sqlDB
	} else {
		log.Warnw("health check will not ping the database", "error", err)
	}

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(pinger, log),
		authHandler: handlers.NewAuthHandler(
			ucs.registerUC,
			ucs.loginUC,
			ucs.initiateOAuthUC,
			ucs.handleOAuthUC,
			ucs.signOutUC,
			ucs.getCurrentUC,
			log,
		),
		sessionHandler: handlers.NewSessionHandler(
			ucs.listSessionsUC,
			ucs.revokeSessionUC,
			ucs.revokeAllSessionsUC,
			log,
		),
	}
}
