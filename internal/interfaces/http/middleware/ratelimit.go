package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/deskhub/internal/infrastructure/metrics"
	"github.com/orris-inc/deskhub/internal/infrastructure/ratelimit"
	"github.com/orris-inc/deskhub/internal/shared/errors"
	"github.com/orris-inc/deskhub/internal/shared/logger"
	"github.com/orris-inc/deskhub/internal/shared/utils"
)

// RateLimiter limits requests per client IP and route. A nil limiter, or one whose
// backend errors, lets every request through.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.RateLimitConfig
	metrics *metrics.Recorder
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, config ratelimit.RateLimitConfig, recorder *metrics.Recorder, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		config:  config,
		metrics: recorder,
		logger:  logger,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.limiter == nil {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := "ip:" + c.ClientIP() + ":" + route

		allowed, err := rl.limiter.Allow(c.Request.Context(), key, rl.config)
		if err != nil {
			rl.logger.Warnw("rate limiter unavailable, allowing request", "error", err, "route", route)
			c.Next()
			return
		}

		if !allowed {
			rl.metrics.RateLimited(route)
			c.Header("Retry-After", strconv.Itoa(60))
			utils.AbortWithError(c, errors.NewRateLimitedError("rate limit exceeded, please try again later"))
			return
		}

		c.Next()
	}
}
