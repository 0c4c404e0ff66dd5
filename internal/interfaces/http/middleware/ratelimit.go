package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window in-memory limiter. Requests are counted
// per key; the ledger keys on the satker owner when the X-Owner-ID
// header is present, falling back to the client IP for anonymous
// traffic.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	span    time.Duration
}

type window struct {
	count   int
	startAt time.Time
}

// NewRateLimiter allows at most limit requests per key within each span.
// A background sweep drops idle keys so the map does not grow with
// every owner that ever called the API.
func NewRateLimiter(limit int, span time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		span:    span,
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.span * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-2 * rl.span)
		for key, w := range rl.windows {
			if w.startAt.Before(cutoff) {
				delete(rl.windows, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow records one request for key and reports whether it fits in the
// current window. The remaining count for the window is returned so the
// caller can surface it in headers without a second lock acquisition.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.startAt) >= rl.span {
		rl.windows[key] = &window{count: 1, startAt: now}
		return true, rl.limit - 1
	}

	if w.count >= rl.limit {
		return false, 0
	}
	w.count++
	return true, rl.limit - w.count
}

// RateLimit enforces the limiter on every request, keyed per owner.
// Blocked requests get 429 with a Retry-After hint of one full window.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(limiter.span.Seconds()))
	limitHeader := strconv.Itoa(limiter.limit)

	return func(c *gin.Context) {
		key := c.GetHeader(OwnerHeaderKey)
		if key == "" {
			key = c.ClientIP()
		}

		ok, remaining := limiter.Allow(key)
		if !ok {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Too many requests. Please try again later.",
				},
			})
			return
		}

		c.Header("X-RateLimit-Limit", limitHeader)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}
