package bootstrap

import (
	"context"
	"fmt"
	"time"

	"mindmaze-api/internal/config"
	"mindmaze-api/internal/database"
	"mindmaze-api/internal/logger"
	"mindmaze-api/internal/middleware"
	"mindmaze-api/internal/monitoring"
	"mindmaze-api/internal/realtime"
	"mindmaze-api/internal/repositories"
	"mindmaze-api/internal/services"
	"mindmaze-api/internal/validation"
	"mindmaze-api/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Container 应用程序依赖注入容器
// 管理所有应用程序组件的生命周期和依赖关系
type Container struct {
	// 配置管理
	ConfigManager *config.ConfigManager
	Config        *config.Config

	// 核心组件
	Logger   *logger.Manager
	Metrics  *monitoring.PrometheusMetricsCollector
	Database *database.Database
	Cache    cache.Cache

	// 仓储层
	UserRepository repositories.UserRepository

	// 服务层
	UserService  services.UserService
	StatsService services.StatsService

	// 实时连接
	Hub *realtime.Hub

	// 中间件和应用
	CORSPolicy  middleware.CORSPolicy
	RateLimiter *middleware.RateLimiter
	App         *Application

	stopBackground context.CancelFunc
}

// NewContainer 按依赖顺序组装组件：数据库 -> 缓存 -> 服务 -> 实时 -> 中间件 -> 路由
// 不做任何网络检查，连接验证在 Startup 中进行
func NewContainer(cm *config.ConfigManager, lm *logger.Manager) (*Container, error) {
	c := &Container{
		ConfigManager: cm,
		Config:        cm.GetConfig(),
		Logger:        lm,
		Metrics:       monitoring.NewPrometheusMetricsCollector(),
	}
	appLogger := c.Logger.GetLogger("app")

	// 1. 初始化数据库
	if err := c.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("初始化数据库失败: %w", err)
	}

	// 2. 初始化缓存，失败不是致命错误
	if err := c.initializeCache(); err != nil {
		appLogger.Warn(context.Background(), "缓存初始化失败，将在没有缓存的情况下运行",
			logger.Error(err))
	}

	// 3. 初始化仓储层和服务层
	c.initializeServices()

	// 4. 初始化实时连接
	c.initializeRealtime()

	// 5. 创建应用并设置中间件
	if config.IsProduction(c.Config.Mode) {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("注册校验规则失败: %w", err)
	}
	c.App = NewApplication(c.Config.App.Title, c.Config.App.Version, c.Logger.GetLogger("app"))
	if err := c.setupMiddlewares(); err != nil {
		return nil, fmt.Errorf("设置中间件失败: %w", err)
	}

	// 6. 挂载路由
	c.mountRoutes()

	// 7. 注册配置变更处理器并启动监控
	c.registerConfigHandlers()
	if err := c.ConfigManager.StartWatching(); err != nil {
		appLogger.Warn(context.Background(), "启动配置文件监控失败", logger.Error(err))
	}

	return c, nil
}

// Startup 在超时内完成启动检查，并启动后台任务
func (c *Container) Startup(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.Config.Database.ConnectTimeoutDuration())
	defer cancel()

	if err := c.App.Startup(ctx, c.Database); err != nil {
		return err
	}

	bg, stop := context.WithCancel(context.Background())
	c.stopBackground = stop
	go c.Hub.Run()
	if c.RateLimiter != nil {
		c.RateLimiter.StartCleanup(bg, time.Minute)
	}
	return nil
}

// Shutdown 停止实时连接并关闭数据库，错误只记录不阻塞退出
func (c *Container) Shutdown(ctx context.Context) {
	appLogger := c.Logger.GetLogger("app")

	if c.stopBackground != nil {
		c.stopBackground()
		c.Hub.Stop()
		appLogger.Info(ctx, "实时连接已关闭")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, c.Config.Server.ShutdownTimeoutDuration())
	defer cancel()
	if err := c.App.Shutdown(shutdownCtx, c.Database); err != nil {
		appLogger.Warn(ctx, "关闭数据库时出错，继续退出", logger.Error(err))
	}
}

// Cleanup 释放剩余资源
func (c *Container) Cleanup() {
	ctx := context.Background()
	appLogger := c.Logger.GetLogger("app")

	// 停止配置监控
	if c.ConfigManager != nil {
		c.ConfigManager.StopWatching()
		appLogger.Info(ctx, "配置文件监控已停止")
	}

	// 关闭缓存连接
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			appLogger.Error(ctx, "关闭缓存连接失败", logger.Error(err))
		} else {
			appLogger.Info(ctx, "缓存连接已关闭")
		}
	}
}
