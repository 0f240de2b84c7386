package middleware

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// Sentry attaches a hub to each request when error reporting is enabled.
func Sentry(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// SentryTenantContext tags the request scope with the caller's tenant and user.
// It must run after JWTAuth or OptionalJWTAuth.
func SentryTenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentrygin.GetHubFromContext(c)
		if hub == nil {
			c.Next()
			return
		}
		if principal, ok := principalFrom(c); ok {
			hub.Scope().SetTag("tenant_id", principal.TenantID)
			hub.Scope().SetTag("user_id", principal.UserID)
		}
		c.Next()
	}
}
