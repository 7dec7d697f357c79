package cache

import (
	"context"
	"time"
)

// Cache 定义缓存操作接口
type Cache interface {
	// GetJSON 读取键并将 JSON 值解码到 dest
	// 返回是否命中；未命中不是错误
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)

	// SetJSON 以 JSON 编码存储值，ttl 为0表示不过期
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete 删除一个或多个键
	Delete(ctx context.Context, keys ...string) error

	// Health 检查缓存连接的健康状况
	Health(ctx context.Context) error

	// Close 关闭缓存连接并清理资源
	Close() error
}
