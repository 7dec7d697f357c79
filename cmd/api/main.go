package main

import (
	"context"
	"fmt"
	"os"

	_ "mindmaze-api/docs" // 导入Swagger文档
	"mindmaze-api/internal/bootstrap"
	"mindmaze-api/internal/config"
	"mindmaze-api/internal/logger"
)

// @title MindMaze API
// @version 1.1.0
// @description MindMaze 问答游戏后端：账号注册登录、排行榜、平台统计和基于 WebSocket 的大厅匹配。错误响应统一为 {"detail": "..."}。认证接口按客户端 IP 限流。
// @contact.name MindMaze
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /

func main() {
	// 加载并校验配置
	configManager, err := config.NewConfigManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := configManager.GetConfig()

	// 启动日志系统
	logManager, err := logger.NewManager(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建日志管理器失败: %v\n", err)
		os.Exit(1)
	}
	if err := logManager.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "启动日志管理器失败: %v\n", err)
		os.Exit(1)
	}
	restoreStdLog := logManager.RedirectStdLog()

	appLogger := logManager.GetLogger("main")
	code := run(configManager, logManager, appLogger)

	restoreStdLog()
	if err := logManager.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "关闭日志系统失败: %v\n", err)
	}
	os.Exit(code)
}

func run(cm *config.ConfigManager, lm *logger.Manager, appLogger logger.Logger) int {
	container, err := bootstrap.NewContainer(cm, lm)
	if err != nil {
		appLogger.Error(context.Background(), "初始化应用容器失败", logger.Error(err))
		return 1
	}

	if err := bootstrap.Run(container); err != nil {
		appLogger.Error(context.Background(), "服务器运行错误", logger.Error(err))
		return 1
	}
	return 0
}
