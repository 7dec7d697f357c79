package bootstrap

import (
	"context"

	"mindmaze-api/internal/config"
	"mindmaze-api/internal/handlers"
	"mindmaze-api/internal/logger"
	"mindmaze-api/internal/routes"

	"github.com/gin-gonic/gin"
)

// mountRoutes 依次挂载 ops、auth、game、websocket
func (c *Container) mountRoutes() {
	var limiter gin.HandlerFunc
	if c.RateLimiter != nil {
		limiter = c.RateLimiter.Middleware()
	}

	var cacheHealth handlers.CacheHealth
	if c.Cache != nil {
		cacheHealth = c.Cache
	}

	healthHandler := handlers.NewHealthHandler(c.App, c.Database, cacheHealth, c.App.Version())
	docs := !config.IsProduction(c.Config.Mode)

	collections := []routes.RouteCollection{
		routes.NewOpsRoutes(healthHandler, c.Metrics.Handler(), docs),
		routes.NewAuthRoutes(handlers.NewAuthHandler(c.UserService, c.Metrics), limiter),
		routes.NewGameRoutes(handlers.NewGameHandler(c.StatsService)),
		routes.NewWebSocketRoutes(handlers.NewWebSocketHandler(c.Hub)),
	}
	for _, rc := range collections {
		c.App.Mount(rc)
	}

	c.Logger.GetLogger("app").Info(context.Background(), "路由已挂载",
		logger.Any("collections", c.App.Collections()),
		logger.Bool("docs_enabled", docs))
}
