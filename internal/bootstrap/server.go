package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindmaze-api/internal/config"
	"mindmaze-api/internal/logger"

	"github.com/gin-gonic/gin"
)

// Server HTTP服务器
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     logger.Logger
}

// NewServer 创建新的HTTP服务器
func NewServer(cfg *config.Config, engine *gin.Engine, appLogger logger.Logger) *Server {
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	return &Server{
		httpServer: server,
		config:     cfg,
		logger:     appLogger,
	}
}

// Start 启动HTTP服务器，阻塞直到关闭
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "启动服务器",
		logger.String("address", s.httpServer.Addr),
		logger.String("docs_url", fmt.Sprintf("http://%s/docs/index.html", s.httpServer.Addr)))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("服务器启动失败: %w", err)
	}
	return nil
}

// Shutdown 优雅关闭服务器，等待进行中的请求完成
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "正在优雅关闭服务器...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务器关闭失败: %w", err)
	}

	s.logger.Info(ctx, "服务器已成功关闭")
	return nil
}

// Run 启动检查、提供服务并处理优雅关闭
// 顺序：Startup -> 监听 -> 信号 -> 排空请求 -> 停止 hub -> 关闭数据库 -> 释放缓存
func Run(container *Container) error {
	appLogger := container.Logger.GetLogger("app")
	defer container.Cleanup()

	if err := container.Startup(context.Background()); err != nil {
		container.Shutdown(context.Background())
		return fmt.Errorf("启动检查失败: %w", err)
	}

	server := NewServer(container.Config, container.App.Engine(), appLogger)
	logSystemSummary(container, appLogger)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case err := <-serverErrors:
		runErr = fmt.Errorf("服务器错误: %w", err)
	case sig := <-quit:
		appLogger.Info(context.Background(), "收到关闭信号",
			logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), container.Config.Server.ShutdownTimeoutDuration())
		if err := server.Shutdown(ctx); err != nil {
			appLogger.Error(ctx, "强制关闭服务器", logger.Error(err))
		}
		cancel()
	}

	container.Shutdown(context.Background())
	appLogger.Info(context.Background(), "应用程序已退出")
	return runErr
}

// logSystemSummary 记录系统摘要
func logSystemSummary(c *Container, appLogger logger.Logger) {
	ctx := context.Background()

	appLogger.Info(ctx, "=== 系统摘要 ===",
		logger.String("title", c.App.Title()),
		logger.String("version", c.App.Version()),
		logger.String("database", c.Database.Name()),
		logger.String("environment", c.Config.Mode),
		logger.Any("collections", c.App.Collections()),
		logger.Int("max_lobby_players", c.Config.Realtime.MaxLobbyPlayers))

	if c.Cache != nil {
		appLogger.Info(ctx, "Redis缓存状态: 已启用",
			logger.String("host", fmt.Sprintf("%s:%d", c.Config.Redis.Host, c.Config.Redis.Port)),
			logger.Int("database", c.Config.Redis.DB))
	} else {
		appLogger.Warn(ctx, "Redis缓存状态: 已禁用", logger.Bool("caching_enabled", false))
	}
}
