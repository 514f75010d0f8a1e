package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newscheck/internal/config"
	"newscheck/internal/ratelimit"
)

// RateLimit rejects requests from a client that exceed the scope's budget
// within its sliding window. Clients are identified by source IP.
func RateLimit(limiter *ratelimit.Limiter, scope string, budget config.RateBudget) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(scope, c.ClientIP(), budget.MaxRequests, budget.Window()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": true,
				"message": fmt.Sprintf("Rate limit exceeded. Max %d requests per %d seconds.",
					budget.MaxRequests, budget.WindowSeconds),
				"code":      http.StatusTooManyRequests,
				"timestamp": timestamp(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
