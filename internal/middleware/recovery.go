package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"mindmaze-api/internal/logger"
	"mindmaze-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// Recovery 捕获 panic，记录堆栈并返回500
func Recovery(log logger.Logger) gin.HandlerFunc {
	log = log.WithModule("recovery")

	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(c.Request.Context(), "Panic recovered",
					logger.String("panic", fmt.Sprint(r)),
					logger.String("path", c.Request.URL.Path),
					logger.String("stacktrace", string(debug.Stack())))

				if c.Writer.Written() {
					c.Abort()
					return
				}
				response.InternalServerError(c, fmt.Errorf("panic: %v", r))
			}
		}()
		c.Next()
	}
}

// SecurityHeaders 设置基础安全响应头
func SecurityHeaders(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if production {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// RequestSizeLimit 限制请求体大小
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		}
		c.Next()
	}
}
