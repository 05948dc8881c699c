package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/deskhub/internal/shared/constants"
	"github.com/orris-inc/deskhub/internal/shared/logger"
)

// Logger writes one access line per request. The raw query is never logged because
// the OAuth callback carries the authorization code and state in it.
func Logger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := []any{
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"bytes", c.Writer.Size(),
		}
		if id := c.GetString(constants.ContextKeyRequestID); id != "" {
			fields = append(fields, "request_id", id)
		}
		if system := c.GetHeader(constants.HeaderSystem); system != "" {
			fields = append(fields, "system", system)
		}
		if userID, ok := c.Get(constants.ContextKeyUserID); ok {
			fields = append(fields, "user_id", userID, "session_id", c.GetUint(constants.ContextKeySessionID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", fields...)
		case status == 401 || status == 429:
			// Expected noise from expired tokens and throttled clients.
			log.Infow("request rejected", fields...)
		case status >= 400:
			log.Warnw("request rejected", fields...)
		default:
			log.Debugw("request served", fields...)
		}
	}
}
