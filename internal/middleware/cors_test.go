package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testPolicy = CORSPolicy{
	AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
	AllowCredentials: true,
}

func newCORSRouter(policy CORSPolicy) (*gin.Engine, *int) {
	hits := 0
	r := gin.New()
	r.Use(CORS(policy))
	r.GET("/api/leaderboard", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, []gin.H{})
	})
	r.POST("/api/login", func(c *gin.Context) {
		hits++
		c.Status(http.StatusOK)
	})
	return r, &hits
}

func TestCORS_AllowedOriginSimpleRequest(t *testing.T) {
	r, hits := newCORSRouter(testPolicy)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *hits)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Values("Vary"), "Origin")
}

func TestCORS_DisallowedOriginSimpleRequest(t *testing.T) {
	r, hits := newCORSRouter(testPolicy)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// 请求照常处理，但不带跨域头
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *hits)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_NoOriginHeader(t *testing.T) {
	r, hits := newCORSRouter(testPolicy)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *hits)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AllowedPreflightMirrorsHeaders(t *testing.T) {
	r, hits := newCORSRouter(testPolicy)

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type,x-custom-header")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, 0, *hits)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "content-type,x-custom-header", w.Header().Get("Access-Control-Allow-Headers"))

	methods := w.Header().Get("Access-Control-Allow-Methods")
	for _, m := range []string{"DELETE", "GET", "HEAD", "OPTIONS", "PATCH", "POST", "PUT"} {
		assert.Contains(t, methods, m)
	}
}

func TestCORS_DisallowedPreflight(t *testing.T) {
	r, hits := newCORSRouter(testPolicy)

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Disallowed CORS origin", w.Body.String())
	assert.Equal(t, 0, *hits)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ExactMatchOnly(t *testing.T) {
	r, _ := newCORSRouter(testPolicy)

	for _, origin := range []string{"http://localhost:3000/", "https://localhost:3000", "http://localhost:30000", "HTTP://LOCALHOST:3000"} {
		req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}

func TestCORS_EmptyAllowlist(t *testing.T) {
	r, hits := newCORSRouter(CORSPolicy{})

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *hits)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPolicy_Allowed(t *testing.T) {
	assert.True(t, testPolicy.Allowed("http://localhost:3000"))
	assert.False(t, testPolicy.Allowed("http://localhost:3001"))
	assert.False(t, testPolicy.Allowed(""))
}
