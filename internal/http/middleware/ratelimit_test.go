package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowAndRefill(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Rate: 2, Burst: 1, Window: time.Minute})
	defer rl.Stop()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, _, _ := rl.Allow("1.2.3.4")
		assert.True(t, ok, "request %d should pass", i)
	}
	ok, remaining, _ := rl.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _, _ = rl.Allow("5.6.7.8")
	assert.True(t, ok, "other keys have their own bucket")

	now = now.Add(30 * time.Second)
	ok, _, _ = rl.Allow("1.2.3.4")
	assert.True(t, ok, "half a window refills one token")

	now = now.Add(3 * time.Minute)
	rl.cleanupExpired()
	rl.mu.Lock()
	assert.Empty(t, rl.buckets)
	rl.mu.Unlock()
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(RateLimitConfig{Rate: 1, Burst: 0, Window: time.Minute})
	defer rl.Stop()
	rl.Stop()

	r := gin.New()
	r.POST("/login", RateLimit(rl), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
