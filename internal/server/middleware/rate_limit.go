package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"aurabox/internal/pkg/ctxutil"
	httpx "aurabox/internal/pkg/http"
)

// RateLimiter 按访问者限流
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*limiterEntry
	rps    rate.Limit
	burst  int
	idle   time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*limiterEntry),
		rps:    rate.Limit(rps),
		burst:  burst,
		idle:   10 * time.Minute,
	}
}

// getLimiter 获取或创建 key 对应的限流器，顺带清理长时间未使用的条目
func (rl *RateLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if entry, ok := rl.limits[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	for k, entry := range rl.limits {
		if now.Sub(entry.lastSeen) > rl.idle {
			delete(rl.limits, k)
		}
	}

	limiter := rate.NewLimiter(rl.rps, rl.burst)
	rl.limits[key] = &limiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

// Allow 检查 key 是否允许通过
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key, time.Now()).Allow()
}

// RateLimit 限流中间件
// 有身份时按 user_id 计，否则按客户端 IP 计
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID, ok := ctxutil.GetUserID(c.Request.Context()); ok {
			key = "user:" + userID
		}

		if !rl.Allow(key) {
			httpx.Abort(c, http.StatusTooManyRequests, httpx.CodeTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
