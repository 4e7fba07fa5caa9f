package middleware

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)
		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("client"), "request %d should be allowed", i+1)
		}
		assert.False(t, limiter.Allow("client"))
		assert.Equal(t, 0, limiter.Remaining("client"))
	})

	t.Run("separate limits per client", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		assert.True(t, limiter.Allow("a"))
		assert.False(t, limiter.Allow("a"))
		assert.True(t, limiter.Allow("b"))
	})

	t.Run("refills one request per slice of the window", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		limiter := NewRateLimiter(10, time.Minute)
		limiter.now = func() time.Time { return now }

		for i := 0; i < 10; i++ {
			assert.True(t, limiter.Allow("c"))
		}
		assert.False(t, limiter.Allow("c"))

		now = now.Add(2 * time.Second)
		assert.False(t, limiter.Allow("c"))

		now = now.Add(4 * time.Second)
		assert.Equal(t, 1, limiter.Remaining("c"))
		assert.True(t, limiter.Allow("c"))
		assert.False(t, limiter.Allow("c"))
	})

	t.Run("no double burst across a minute boundary", func(t *testing.T) {
		start := time.Date(2026, 1, 1, 0, 0, 59, 0, time.UTC)
		now := start
		limiter := NewRateLimiter(10, time.Minute)
		limiter.now = func() time.Time { return now }

		allowed := 0
		for now.Before(start.Add(2 * time.Second)) {
			if limiter.Allow("login") {
				allowed++
			}
			now = now.Add(100 * time.Millisecond)
		}
		assert.Equal(t, 10, allowed)
	})

	t.Run("idle clients are evicted", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		limiter := NewRateLimiter(5, time.Minute)
		limiter.now = func() time.Time { return now }

		assert.True(t, limiter.Allow("a"))
		assert.True(t, limiter.Allow("b"))

		now = now.Add(time.Minute)
		assert.True(t, limiter.Allow("c"))
		assert.Len(t, limiter.clients, 1)
		assert.Equal(t, 5, limiter.Remaining("a"))
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)
		fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return fixed }
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			allowed int
		)
		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	r := gin.New()
	r.Use(RateLimit(limiter))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := serve(r, "POST", "/login", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := serve(r, "POST", "/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}
