package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		config:  &RateLimiterConfig{MaxRequests: max, Window: window, CleanupInterval: time.Hour},
		clients: make(map[string]*clientState),
		stopCh:  make(chan struct{}),
		now:     time.Now,
	}
}

func TestAllowWithinWindow(t *testing.T) {
	rl := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("1.2.3.4")
		require.True(t, allowed)
	}

	allowed, retryAfter := rl.Allow("1.2.3.4")
	require.False(t, allowed)
	require.Greater(t, retryAfter, 0)

	// 其他客户端不受影响
	allowed, _ = rl.Allow("5.6.7.8")
	require.True(t, allowed)
}

func TestWindowResets(t *testing.T) {
	rl := newTestLimiter(1, time.Minute)

	base := time.Now()
	rl.now = func() time.Time { return base }

	allowed, _ := rl.Allow("1.2.3.4")
	require.True(t, allowed)
	allowed, _ = rl.Allow("1.2.3.4")
	require.False(t, allowed)

	rl.now = func() time.Time { return base.Add(time.Minute + time.Second) }
	allowed, _ = rl.Allow("1.2.3.4")
	require.True(t, allowed)
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := newTestLimiter(1, time.Minute)
	router := gin.New()
	router.Use(RateLimitMiddleware(rl))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.Contains(t, second.Body.String(), "RATE_LIMIT_EXCEEDED")
}
