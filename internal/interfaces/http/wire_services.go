package http

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/deskhub/internal/infrastructure/auth"
	"github.com/orris-inc/deskhub/internal/infrastructure/cache"
	"github.com/orris-inc/deskhub/internal/infrastructure/config"
	"github.com/orris-inc/deskhub/internal/infrastructure/ratelimit"
	"github.com/orris-inc/deskhub/internal/infrastructure/scheduler"
	"github.com/orris-inc/deskhub/internal/interfaces/http/middleware"
)

const (
	oauthStatePrefix = "oauth:state:"
	oauthStateTTL    = 10 * time.Minute
	cacheSweepPeriod = 5 * time.Minute
)

// ============================================================
// Section 1: Infrastructure - Redis, caches, repositories, auth services
// ============================================================

// initInfrastructure connects Redis when enabled and builds the caches, repositories
// and auth services everything else depends on.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(context.Background(), &cfg.Redis)
		if err != nil {
			return err
		}
		c.redis = client
		log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())
	} else {
		log.Warnw("redis disabled, using in-process caches; rate limiting is off and state is not shared between instances")
	}

	touchInterval := time.Duration(cfg.Auth.Session.TouchIntervalSeconds) * time.Second
	if c.redis != nil {
		c.stateStore = cache.NewRedisStateStore(c.redis, oauthStatePrefix, oauthStateTTL)
		c.activityThrottle = cache.NewRedisActivityThrottle(c.redis, touchInterval)
		c.limiter = ratelimit.NewRedisRateLimiter(c.redis)
	} else {
		c.memoryStore = cache.NewMemoryStore()
		c.stateStore = cache.NewMemoryStateStore(c.memoryStore, oauthStatePrefix, oauthStateTTL)
		c.activityThrottle = cache.NewMemoryActivityThrottle(c.memoryStore, touchInterval)
	}

	c.repos = newRepositories(c.db, log)

	c.tokenIssuer = auth.NewTokenIssuer(cfg.Auth.JWT.Secret)
	c.hasher = auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)

	if google := cfg.OAuth.Google; google.Enabled() {
		c.oauthClient = auth.NewGoogleOAuthClient(auth.GoogleOAuthConfig{
			ClientID:     google.ClientID,
			ClientSecret: google.ClientSecret,
			RedirectURL:  google.RedirectURL,
		})
		log.Infow("google sign-in enabled", "redirect_url", google.RedirectURL)
	}

	publicPaths := cfg.Auth.PublicPaths
	if len(publicPaths) == 0 {
		publicPaths = config.DefaultPublicPaths
	}
	c.authMiddleware = middleware.NewAuthMiddleware(
		c.tokenIssuer,
		c.repos.sessionRepo,
		c.repos.userRepo,
		c.activityThrottle,
		c.metrics,
		middleware.AuthMiddlewareConfig{
			PublicPaths:         publicPaths,
			RequireDeviceHeader: cfg.Auth.Session.RequireDeviceHeader,
		},
		log.Named("auth"),
	)

	// A nil limiter interface disables the middleware.
	var limiter ratelimit.RateLimiter
	if c.limiter != nil {
		limiter = c.limiter
	}
	c.rateLimiter = middleware.NewRateLimiter(
		limiter,
		ratelimit.RateLimitConfig{RequestsPerMinute: cfg.RateLimit.AuthRequestsPerMinute},
		c.metrics,
		log,
	)

	return nil
}

// ============================================================
// Section 4: Background jobs
// ============================================================

func (c *Container) initScheduler() error {
	manager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	interval := time.Duration(c.cfg.Auth.Session.CleanupIntervalMinutes) * time.Minute
	if interval > 0 {
		job := scheduler.NewSessionCleanupJob(c.repos.sessionRepo, c.metrics)
		if err := manager.RegisterSessionCleanupJob(job, interval); err != nil {
			return fmt.Errorf("failed to register session cleanup job: %w", err)
		}
	}

	if c.memoryStore != nil {
		if err := manager.RegisterCacheSweepJob(scheduler.NewCacheSweepJob(c.memoryStore), cacheSweepPeriod); err != nil {
			return fmt.Errorf("failed to register cache sweep job: %w", err)
		}
	}

	c.schedulerManager = manager
	return nil
}
