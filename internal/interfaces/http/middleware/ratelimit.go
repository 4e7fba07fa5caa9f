package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vellap/portal/internal/interfaces/http/dto"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client. A client may burst up to
// limit requests, after which tokens refill evenly over the window.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	limit     int
	refill    rate.Limit
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows limit requests per key in each window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	return &RateLimiter{
		clients: make(map[string]*clientBucket),
		limit:   limit,
		refill:  rate.Every(window / time.Duration(limit)),
		idle:    window,
		now:     time.Now,
	}
}

// Allow consumes one request for key and reports whether it is allowed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweepLocked(now)

	b, ok := rl.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.refill, rl.limit)}
		rl.clients[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Remaining returns the whole requests key may send right now
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.clients[key]
	if !ok {
		return rl.limit
	}
	tokens := int(b.limiter.TokensAt(rl.now()))
	if tokens < 0 {
		return 0
	}
	return tokens
}

// sweepLocked drops buckets idle for a full window, at most once per
// window. A bucket idle that long is full again. Caller holds mu.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.idle {
		return
	}
	rl.lastSweep = now
	for key, b := range rl.clients {
		if now.Sub(b.lastSeen) >= rl.idle {
			delete(rl.clients, key)
		}
	}
}

// RateLimit limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string { return c.ClientIP() })
}

// RateLimitByKey limits requests per key returned by keyFunc
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		if !limiter.Allow(key) {
			abort(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "Too many requests. Please try again later.")
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}
