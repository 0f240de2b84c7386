package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/kingrain94/tenant-guard/pkg/logger"
)

type RateLimitMiddleware struct {
	redis  *redis.Client
	logger *logger.Logger
	window time.Duration
}

func NewRateLimitMiddleware(redis *redis.Client, logger *logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		redis:  redis,
		logger: logger,
		window: time.Minute,
	}
}

// GlobalRateLimit caps requests per client IP per minute. Redis errors let the
// request through.
func (m *RateLimitMiddleware) GlobalRateLimit(limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.redis == nil || limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("rate_limit:global:%s", c.ClientIP())

		pipe := m.redis.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, m.window)
		if _, err := pipe.Exec(ctx); err != nil {
			m.logger.Error("Redis error in global rate limiting", err)
			c.Next()
			return
		}

		current := int(incr.Val())
		reset := strconv.FormatInt(time.Now().Add(m.window).Unix(), 10)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Reset", reset)

		if current > limit {
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Global rate limit exceeded",
				"limit": limit,
			})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(limit-current))
		c.Next()
	}
}
