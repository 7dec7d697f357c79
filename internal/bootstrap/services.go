package bootstrap

import (
	"time"

	"mindmaze-api/internal/realtime"
	"mindmaze-api/internal/repositories"
	"mindmaze-api/internal/services"
)

// initializeServices 初始化仓储层和服务层；缓存可用时为仓储加一层缓存
func (c *Container) initializeServices() {
	repo := repositories.NewUserRepository(c.Database)

	if c.Cache != nil {
		cached := repositories.NewCachedUserRepository(repo, c.Cache,
			time.Duration(c.Config.Cache.LeaderboardTTL)*time.Second,
			time.Duration(c.Config.Cache.StatsTTL)*time.Second,
			c.Logger.GetLogger("cache"))
		cached.SetObserver(c.Metrics.RecordCacheLookup)
		c.UserRepository = cached
	} else {
		c.UserRepository = repo
	}

	c.UserService = services.NewUserService(c.UserRepository, c.Config.Auth.BcryptCost)
}

// initializeRealtime 创建 hub，并与统计服务相互连接
func (c *Container) initializeRealtime() {
	c.CORSPolicy = corsPolicy(c.Config)

	c.Hub = realtime.NewHub(realtime.HubConfig{
		MaxLobbyPlayers: c.Config.Realtime.MaxLobbyPlayers,
		MaxMessageSize:  c.Config.Realtime.MaxMessageSize,
		CheckOrigin:     c.CORSPolicy.Allowed,
	}, c.Logger.GetLogger("realtime"))

	c.StatsService = services.NewStatsService(c.UserRepository, c.Hub)
	c.Hub.SetStatsSource(c.StatsService)
	c.Hub.SetObserver(c.Metrics)
}
