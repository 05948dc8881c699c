package http

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/orris-inc/deskhub/internal/infrastructure/config"
	"github.com/orris-inc/deskhub/internal/shared/logger"
)

// Router represents the HTTP router configuration.
// It embeds *Container which holds all wired dependencies.
type Router struct {
	*Container
}

// NewRouter creates a new HTTP router with all dependencies.
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// GetEngine returns the Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// StartScheduler starts background jobs. Call it once the server is about to serve.
func (r *Router) StartScheduler() {
	if r.schedulerManager != nil {
		r.schedulerManager.Start()
	}
}
