package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/api/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func doLogin(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BurstThen429(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, Burst: 3}, nil)
	var limitedPaths []string
	rl.OnLimit(func(path string) { limitedPaths = append(limitedPaths, path) })
	r := newLimitedRouter(rl)

	for i := 0; i < 3; i++ {
		w := doLogin(r, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}

	w := doLogin(r, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"detail":"Too many requests, please slow down"}`, w.Body.String())
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, []string{"/api/login"}, limitedPaths)
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, Burst: 1}, nil)
	r := newLimitedRouter(rl)

	assert.Equal(t, http.StatusOK, doLogin(r, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doLogin(r, "10.0.0.1:1").Code)

	// 其他客户端不受影响
	assert.Equal(t, http.StatusOK, doLogin(r, "10.0.0.2:1").Code)
	assert.Equal(t, 2, rl.Clients())
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 2, Burst: 1}, nil)
	rl.now = func() time.Time { return now }
	r := newLimitedRouter(rl)

	assert.Equal(t, http.StatusOK, doLogin(r, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doLogin(r, "10.0.0.1:1").Code)

	now = now.Add(600 * time.Millisecond)
	assert.Equal(t, http.StatusOK, doLogin(r, "10.0.0.1:1").Code)
}

func TestRateLimiter_CleanupIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 5, Burst: 5, IdleTimeout: time.Minute}, nil)
	rl.now = func() time.Time { return now }
	r := newLimitedRouter(rl)

	doLogin(r, "10.0.0.1:1")
	now = now.Add(30 * time.Second)
	doLogin(r, "10.0.0.2:1")

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, rl.Cleanup())
	assert.Equal(t, 1, rl.Clients())
}
