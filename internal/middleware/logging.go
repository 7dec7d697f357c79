package middleware

import (
	"time"

	"mindmaze-api/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIDHeader 用于在HTTP头中传递关联ID
const CorrelationIDHeader = "X-Correlation-ID"

// correlationIDContextKey 用于在Gin上下文中存储关联ID
const correlationIDContextKey = "correlation_id"

// SlowRequestThreshold 慢请求阈值
const SlowRequestThreshold = time.Second

// generateCorrelationID 生成新的关联ID
func generateCorrelationID() string {
	return uuid.New().String()
}

// GetCorrelationIDFromContext 从Gin上下文中获取关联ID
func GetCorrelationIDFromContext(c *gin.Context) string {
	if corrID, exists := c.Get(correlationIDContextKey); exists {
		if id, ok := corrID.(string); ok {
			return id
		}
	}
	return ""
}

// StructuredLogging 创建结构化日志中间件
// 关联ID写入响应头、gin 上下文以及 request context，下游日志可以直接带出
func StructuredLogging(log logger.Logger) gin.HandlerFunc {
	log = log.WithModule("http")

	return func(c *gin.Context) {
		start := time.Now()

		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = generateCorrelationID()
		}
		c.Set(correlationIDContextKey, correlationID)
		c.Header(CorrelationIDHeader, correlationID)

		ctx := logger.ContextWithCorrelationID(c.Request.Context(), correlationID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status_code", status),
			logger.Int64("latency_ms", latency.Milliseconds()),
			logger.String("client_ip", c.ClientIP()),
			logger.String("user_agent", c.Request.UserAgent()),
			logger.Int64("request_size", c.Request.ContentLength),
			logger.Int("response_size", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("error_message", c.Errors.String()))
		}

		// 根据状态码选择日志级别
		switch {
		case status >= 500:
			log.Error(ctx, "HTTP request failed", fields...)
		case status >= 400:
			log.Warn(ctx, "HTTP request rejected", fields...)
		default:
			log.Info(ctx, "HTTP request", fields...)
		}

		if latency > SlowRequestThreshold {
			log.Warn(ctx, "Slow request detected",
				logger.String("path", c.Request.URL.Path),
				logger.Int64("latency_ms", latency.Milliseconds()))
		}
	}
}
