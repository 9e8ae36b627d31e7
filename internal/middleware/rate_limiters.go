package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiter pairs a token bucket with the last time its IP made a request,
// so stale entries can be evicted.
type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitByIP limits each client IP to rps requests per second with a
// burst of the same size. Entries idle longer than expiration are dropped
// every cleanupInterval. A single user talking to a local daemon stays far
// under any sane limit; this guards against a runaway shell script.
func RateLimitByIP(rps int, cleanupInterval time.Duration, expiration time.Duration) gin.HandlerFunc {
	var limiters sync.Map

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			limiters.Range(func(key, value interface{}) bool {
				if time.Since(value.(*ipLimiter).lastSeen) > expiration {
					limiters.Delete(key)
				}
				return true
			})
		}
	}()

	return func(c *gin.Context) {
		actual, _ := limiters.LoadOrStore(c.ClientIP(), &ipLimiter{
			limiter:  rate.NewLimiter(rate.Limit(rps), rps),
			lastSeen: time.Now(),
		})

		entry := actual.(*ipLimiter)
		entry.lastSeen = time.Now()

		if !entry.limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}
