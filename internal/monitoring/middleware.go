package monitoring

import (
	"time"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 指标收集中间件
// 以路由模板作为标签，未匹配的路由归入 "unmatched"
func MetricsMiddleware(metrics MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
