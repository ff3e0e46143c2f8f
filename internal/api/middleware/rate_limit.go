package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"poll-service/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Limiter reports whether another request under key fits in the window.
type Limiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type RateLimitMiddleware struct {
	limiter Limiter
	logger  *zap.Logger
}

// NewRateLimitMiddleware returns a middleware factory. A nil limiter
// disables rate limiting.
func NewRateLimitMiddleware(limiter Limiter, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, logger: logger}
}

func (rm *RateLimitMiddleware) check(c *gin.Context, key string, requests int, window time.Duration) {
	allowed, err := rm.limiter.CheckRateLimit(c.Request.Context(), key, requests, window)
	if err != nil {
		// fail open
		rm.logger.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
		c.Next()
		return
	}
	if !allowed {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
			Code:    http.StatusTooManyRequests,
			Message: "Rate limit exceeded",
			Details: fmt.Sprintf("Too many requests. Limit: %d per %v", requests, window),
		})
		return
	}
	c.Next()
}

// RateLimit limits authenticated callers per user and anonymous callers
// per client IP.
func (rm *RateLimitMiddleware) RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rm.limiter == nil {
			c.Next()
			return
		}
		if userID, ok := UserID(c); ok {
			rm.check(c, fmt.Sprintf("rate_limit:%d:%s", userID, c.FullPath()), requests, window)
			return
		}
		rm.check(c, fmt.Sprintf("rate_limit_ip:%s:%s", c.ClientIP(), c.FullPath()), requests, window)
	}
}

// RateLimitIP creates a rate limiting middleware for public routes based on IP address
func (rm *RateLimitMiddleware) RateLimitIP(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rm.limiter == nil {
			c.Next()
			return
		}
		rm.check(c, fmt.Sprintf("rate_limit_ip:%s:%s", c.ClientIP(), c.FullPath()), requests, window)
	}
}
