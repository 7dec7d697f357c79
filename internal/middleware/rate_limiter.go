package middleware

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"mindmaze-api/internal/logger"
	"mindmaze-api/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig 速率限制配置
type RateLimiterConfig struct {
	RequestsPerSecond float64       // 每个客户端每秒允许的请求数
	Burst             int           // 突发容量
	IdleTimeout       time.Duration // 客户端闲置多久后回收其限流器
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按客户端IP的令牌桶限流器
type RateLimiter struct {
	cfg     RateLimiterConfig
	logger  logger.Logger
	onLimit func(path string)

	mu      sync.Mutex
	clients map[string]*clientLimiter
	now     func() time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter(cfg RateLimiterConfig, log logger.Logger) *RateLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 10 * time.Minute
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &RateLimiter{
		cfg:     cfg,
		logger:  log.WithModule("rate_limit"),
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// OnLimit 设置触发限流时的回调，用于指标采集
func (rl *RateLimiter) OnLimit(fn func(path string)) {
	rl.onLimit = fn
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.clients[key]
	if !exists {
		entry = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)}
		rl.clients[key] = entry
	}
	entry.lastSeen = rl.now()
	return entry.limiter
}

// Cleanup 回收闲置的客户端限流器
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.cfg.IdleTimeout)
	removed := 0
	for key, entry := range rl.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
			removed++
		}
	}
	return removed
}

// Clients 返回当前跟踪的客户端数量
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// StartCleanup 周期性回收，直到 ctx 取消
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}

// Middleware 返回 gin 中间件
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	limitHeader := strconv.Itoa(rl.cfg.Burst)

	return func(c *gin.Context) {
		key := c.ClientIP()
		limiter := rl.getLimiter(key)

		c.Header("X-RateLimit-Limit", limitHeader)

		reservation := limiter.ReserveN(rl.now(), 1)
		if delay := reservation.DelayFrom(rl.now()); delay > 0 {
			reservation.CancelAt(rl.now())

			rl.logger.Warn(c.Request.Context(), "Rate limit exceeded",
				logger.String("client_ip", key),
				logger.String("path", c.Request.URL.Path))
			if rl.onLimit != nil {
				rl.onLimit(c.FullPath())
			}

			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			response.TooManyRequests(c)
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.TokensAt(rl.now()))))
		c.Next()
	}
}
