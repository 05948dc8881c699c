package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/deskhub/internal/infrastructure/metrics"
)

// Metrics observes request latency labelled by the route template, never the raw path.
func Metrics(recorder *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
