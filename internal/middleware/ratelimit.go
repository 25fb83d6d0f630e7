package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/StudyBeacon/physics-learn/pkg/errors"
	"github.com/StudyBeacon/physics-learn/pkg/response"
)

// Limiter decides whether one more request fits the caller's budget.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
	Window() time.Duration
}

// RateLimit throttles requests per client IP. A nil limiter disables throttling.
func RateLimit(limiter Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		if !limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP()) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(limiter.Window().Seconds())))
			response.Error(c, appErrors.Clone(appErrors.ErrTooManyRequests, "too many attempts, try again later"))
			c.Abort()
			return
		}
		c.Next()
	}
}
