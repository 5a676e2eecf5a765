package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter tracks a sliding window of request timestamps per client IP.
// State is process-lifetime only and resets on restart.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string][]time.Time
	window   time.Duration
	max      int
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing max requests per window per IP.
func NewRateLimiter(window time.Duration, max int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string][]time.Time),
		window:   window,
		max:      max,
		now:      time.Now,
	}

	// Drop idle IPs every 5 minutes to prevent unbounded growth
	go rl.cleanupVisitors()

	return rl
}

// Allow records a request for ip when the window has room. When full it
// returns false plus a retry-after hint in seconds, computed from the oldest
// timestamp in the current window.
func (rl *RateLimiter) Allow(ip string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	stamps := rl.visitors[ip]
	pruned := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= rl.max {
		rl.visitors[ip] = pruned
		retryAfter := int(math.Ceil(rl.window.Seconds() - now.Sub(pruned[0]).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter
	}

	rl.visitors[ip] = append(pruned, now)
	return true, 0
}

func (rl *RateLimiter) cleanupVisitors() {
	for {
		time.Sleep(5 * time.Minute)
		rl.mu.Lock()
		cutoff := rl.now().Add(-rl.window)
		for ip, stamps := range rl.visitors {
			if len(stamps) == 0 || !stamps[len(stamps)-1].After(cutoff) {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// LimitMiddleware returns a Gin middleware that rejects over-limit requests
// with 429 and a retryAfter hint.
func (rl *RateLimiter) LimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.Allow(c.ClientIP())
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "Rate limit exceeded. Please try again later.",
				"retryAfter": retryAfter,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
