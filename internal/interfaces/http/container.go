package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/deskhub/internal/infrastructure/auth"
	"github.com/orris-inc/deskhub/internal/infrastructure/cache"
	"github.com/orris-inc/deskhub/internal/infrastructure/config"
	"github.com/orris-inc/deskhub/internal/infrastructure/metrics"
	"github.com/orris-inc/deskhub/internal/infrastructure/ratelimit"
	"github.com/orris-inc/deskhub/internal/infrastructure/scheduler"
	"github.com/orris-inc/deskhub/internal/interfaces/http/middleware"
	"github.com/orris-inc/deskhub/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases, handlers,
// and background services. It is responsible for wiring everything together and
// providing a Shutdown() method for graceful termination.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter

	// Auth infrastructure
	tokenIssuer *auth.TokenIssuer
	hasher      *auth.BcryptPasswordHasher
	oauthClient *auth.GoogleOAuthClient // nil when Google sign-in is not configured

	// Caches; Redis backed when enabled, in-process otherwise
	memoryStore      *cache.MemoryStore
	stateStore       cache.StateStore
	activityThrottle cache.ActivityThrottle
	limiter          ratelimit.RateLimiter // nil when Redis is disabled

	metrics          *metrics.Recorder
	schedulerManager *scheduler.SchedulerManager
}

// NewContainer creates a new Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine:  gin.New(),
		db:      db,
		cfg:     cfg,
		log:     log,
		metrics: metrics.NewRecorder(),
	}

	// Section 1: Infrastructure - Redis, caches, repositories, auth services
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Use cases - registration, sign-in, session lifecycle
	c.initUseCases()

	// Section 3: Handlers and middlewares
	c.initHandlers()

	// Section 4: Background jobs
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}

// Shutdown stops background jobs and closes the Redis connection.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
