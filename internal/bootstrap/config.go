package bootstrap

import (
	"context"

	"mindmaze-api/internal/config"
	"mindmaze-api/internal/logger"
)

// registerConfigHandlers 注册配置变更处理器
// 只有日志配置支持热更新，其余变更需要重启
func (c *Container) registerConfigHandlers() {
	appLogger := c.Logger.GetLogger("config")

	c.ConfigManager.OnLoggingChange(func(ctx context.Context, oldCfg, newCfg config.LoggingConfig) {
		appLogger.Info(ctx, "日志配置已更改",
			logger.String("old_level", oldCfg.Level),
			logger.String("new_level", newCfg.Level),
			logger.String("old_format", oldCfg.Format),
			logger.String("new_format", newCfg.Format))

		if err := c.Logger.UpdateConfig(newCfg); err != nil {
			appLogger.Warn(ctx, "日志配置部分生效", logger.Error(err))
		}
	})
}
