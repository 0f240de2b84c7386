package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kingrain94/tenant-guard/pkg/logger"
)

// RequestLogger logs one line per request once the handler chain has run.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", raw),
			zap.String("client_ip", c.ClientIP()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
		}
		if principal, ok := principalFrom(c); ok {
			fields = append(fields,
				zap.String("tenant_id", principal.TenantID),
				zap.String("user_id", principal.UserID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Warn("HTTP request failed", fields...)
		case status >= 400:
			log.Info("HTTP request rejected", fields...)
		default:
			log.Debug("HTTP request", fields...)
		}
	}
}
