package middleware

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiterConfig 限流配置
type RateLimiterConfig struct {
	MaxRequests     int           // 窗口内最大请求数
	Window          time.Duration // 固定窗口长度
	CleanupInterval time.Duration // 清理间隔
}

// DefaultRateLimiterConfig 默认配置
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		MaxRequests:     100,
		Window:          15 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// clientState 客户端状态
type clientState struct {
	count       int
	windowStart time.Time
}

// RateLimiter 按客户端的固定窗口限流器
// 窗口到期整体重置，不做滑动平滑
type RateLimiter struct {
	config  *RateLimiterConfig
	clients map[string]*clientState
	mu      sync.Mutex
	stopCh  chan struct{}

	now func() time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter(config *RateLimiterConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}

	rl := &RateLimiter{
		config:  config,
		clients: make(map[string]*clientState),
		stopCh:  make(chan struct{}),
		now:     time.Now,
	}

	// 启动清理协程
	go rl.cleanup()

	return rl
}

// Allow 检查是否允许请求，超限时返回距窗口重置的秒数
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	state, exists := rl.clients[key]

	if !exists || now.Sub(state.windowStart) >= rl.config.Window {
		rl.clients[key] = &clientState{count: 1, windowStart: now}
		return true, 0
	}

	if state.count >= rl.config.MaxRequests {
		remaining := rl.config.Window - now.Sub(state.windowStart)
		return false, int(math.Ceil(remaining.Seconds()))
	}

	state.count++
	return true, 0
}

// cleanup 定期清理过期窗口
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, state := range rl.clients {
				if now.Sub(state.windowStart) >= rl.config.Window {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

// Stop 停止限流器
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// RateLimitMiddleware 限流中间件
// 客户端标识优先使用已认证的用户 ID，匿名请求退回到来源 IP
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString("user_id")
		if key == "" {
			key = c.ClientIP()
		}

		allowed, retryAfter := limiter.Allow(key)
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests, please try again later",
				"code":        "RATE_LIMIT_EXCEEDED",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
