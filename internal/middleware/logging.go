package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"klarpakke/internal/logger"
)

const requestIDKey = "requestID"

// healthPath is excluded from request logging; uptime probes hit it
// every few seconds and drown out real traffic.
const healthPath = "/api/health"

// RequestLogging returns a Gin middleware that tags each request with a
// unique ID (echoed in the X-Request-ID header) and logs method, route,
// status, latency, and client IP on completion.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == healthPath {
			c.Next()
			return
		}

		start := time.Now()

		requestID := uuid.New().String()
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		logger.Get().Infow("request completed",
			"request_id", requestID,
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
