package bootstrap

import (
	"context"
	"time"

	"mindmaze-api/internal/config"
	"mindmaze-api/internal/logger"
	"mindmaze-api/internal/middleware"
	"mindmaze-api/internal/monitoring"
)

// maxRequestBody 请求体大小上限
const maxRequestBody = 1 << 20

func corsPolicy(cfg *config.Config) middleware.CORSPolicy {
	return middleware.CORSPolicy{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// setupMiddlewares 设置中间件栈，顺序在挂载路由前固定
func (c *Container) setupMiddlewares() error {
	appLogger := c.Logger.GetLogger("app")
	httpLogger := c.Logger.GetLogger("http")

	// 1. 跨域
	if err := c.App.UseCORS(c.CORSPolicy); err != nil {
		return err
	}
	appLogger.Debug(context.Background(), "CORS中间件已初始化",
		logger.Any("allowed_origins", c.CORSPolicy.AllowedOrigins))

	// 2. 结构化日志 3. 恢复 4. 指标 5. 安全头 6. 请求大小限制
	if err := c.App.Use(
		middleware.StructuredLogging(httpLogger),
		middleware.Recovery(httpLogger),
		monitoring.MetricsMiddleware(c.Metrics),
		middleware.SecurityHeaders(config.IsProduction(c.Config.Mode)),
		middleware.RequestSizeLimit(maxRequestBody),
	); err != nil {
		return err
	}

	// 速率限制只用于认证路由
	if c.Config.RateLimit.Enabled {
		c.RateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: c.Config.RateLimit.Requests,
			Burst:             c.Config.RateLimit.Burst,
		}, c.Logger.GetLogger("http"))
		c.RateLimiter.OnLimit(c.Metrics.RecordRateLimited)

		appLogger.Info(context.Background(), "速率限制中间件已初始化",
			logger.Any("requests_per_second", c.Config.RateLimit.Requests),
			logger.Int("burst", c.Config.RateLimit.Burst))
	} else {
		appLogger.Warn(context.Background(), "速率限制中间件已禁用")
	}

	return nil
}
