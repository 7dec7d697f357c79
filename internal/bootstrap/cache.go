package bootstrap

import (
	"context"
	"fmt"
	"time"

	"mindmaze-api/internal/logger"
	"mindmaze-api/pkg/cache"
)

// initializeCache 初始化 Redis 缓存
func (c *Container) initializeCache() error {
	appLogger := c.Logger.GetLogger("app")

	if !c.Config.Redis.Enabled {
		appLogger.Info(context.Background(), "Redis缓存已禁用")
		return nil
	}

	redisConfig := cache.DefaultRedisConfig()
	redisConfig.Addr = fmt.Sprintf("%s:%d", c.Config.Redis.Host, c.Config.Redis.Port)
	redisConfig.Password = c.Config.Redis.Password
	redisConfig.DB = c.Config.Redis.DB
	if c.Config.Redis.PoolSize > 0 {
		redisConfig.PoolSize = c.Config.Redis.PoolSize
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	redisCache, err := cache.NewRedisCache(ctx, redisConfig)
	if err != nil {
		return fmt.Errorf("连接Redis失败: %w", err)
	}
	c.Cache = redisCache

	appLogger.Info(context.Background(), "Redis缓存初始化成功",
		logger.String("addr", redisConfig.Addr),
		logger.Int("database", redisConfig.DB),
		logger.Int("pool_size", redisConfig.PoolSize))
	return nil
}
