package bootstrap

import (
	"context"
	"fmt"

	"mindmaze-api/internal/database"
	"mindmaze-api/internal/logger"
)

// initializeDatabase 创建 MongoDB 句柄，此时不会连接
func (c *Container) initializeDatabase() error {
	db, err := database.New(c.Config.Database, c.Logger.GetLogger("database"), c.Metrics.RecordDatabaseCommand)
	if err != nil {
		return fmt.Errorf("创建数据库句柄失败: %w", err)
	}
	c.Database = db

	c.Logger.GetLogger("app").Info(context.Background(), "数据库句柄已创建",
		logger.String("database", db.Name()),
		logger.Int("connect_timeout_seconds", c.Config.Database.ConnectTimeout))
	return nil
}
