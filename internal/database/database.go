package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"mindmaze-api/internal/config"
	"mindmaze-api/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UsersCollection 用户集合名称
const UsersCollection = "users"

// SlowCommandThreshold 慢命令阈值
const SlowCommandThreshold = 50 * time.Millisecond

// ErrClosed 连接已关闭
var ErrClosed = errors.New("database: client is closed")

// IndexSpec 索引声明
type IndexSpec struct {
	Field  string
	Unique bool
}

// Store 启动与关闭流程依赖的文档存储能力
type Store interface {
	// Ping 向管理库发送 ping 命令
	Ping(ctx context.Context) error

	// EnsureIndex 确保集合上存在指定索引，已存在时视为成功
	EnsureIndex(ctx context.Context, collection string, spec IndexSpec) error

	// Close 关闭客户端连接
	Close(ctx context.Context) error
}

// CommandObserver 命令完成时的回调，用于指标采集
type CommandObserver func(command string, duration time.Duration, failed bool)

// HealthStatus 最近一次健康检查的结果
type HealthStatus struct {
	LastHealthCheck time.Time `json:"last_health_check"`
	IsHealthy       bool      `json:"is_healthy"`
	ErrorMessage    string    `json:"error_message,omitempty"`
}

// CommandStats 命令执行统计
type CommandStats struct {
	TotalCommands  int64 `json:"total_commands"`
	FailedCommands int64 `json:"failed_commands"`
	SlowCommands   int64 `json:"slow_commands"`
}

// Database MongoDB 客户端封装
type Database struct {
	client *mongo.Client
	db     *mongo.Database
	logger logger.Logger

	mu     sync.RWMutex
	health HealthStatus
	closed atomic.Bool

	totalCommands  atomic.Int64
	failedCommands atomic.Int64
	slowCommands   atomic.Int64
}

// New 根据配置创建客户端
// 驱动延迟建立连接，这里不会访问服务器；连通性由 Ping 验证
func New(cfg config.DatabaseConfig, log logger.Logger, observer CommandObserver) (*Database, error) {
	if log == nil {
		log = logger.NewNop()
	}

	d := &Database{logger: log.WithModule("database")}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMonitor(d.commandMonitor(observer))
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if timeout := cfg.ConnectTimeoutDuration(); timeout > 0 {
		opts.SetServerSelectionTimeout(timeout)
		opts.SetConnectTimeout(timeout)
	}

	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	d.client = client
	d.db = client.Database(cfg.Name)

	d.logger.Info(context.Background(), "MongoDB client created",
		logger.String("database", cfg.Name),
		logger.Any("max_pool_size", cfg.MaxPoolSize))

	return d, nil
}

// NewFromClient 使用已有客户端创建 Database
func NewFromClient(client *mongo.Client, name string, log logger.Logger) *Database {
	if log == nil {
		log = logger.NewNop()
	}
	return &Database{
		client: client,
		db:     client.Database(name),
		logger: log.WithModule("database"),
	}
}

func (d *Database) commandMonitor(observer CommandObserver) *event.CommandMonitor {
	finish := func(ctx context.Context, name string, nanos int64, failed bool) {
		duration := time.Duration(nanos)
		d.totalCommands.Add(1)
		if failed {
			d.failedCommands.Add(1)
		}
		if duration > SlowCommandThreshold {
			d.slowCommands.Add(1)
			d.logger.Warn(ctx, "Slow MongoDB command",
				logger.String("command", name),
				logger.Int64("duration_ms", duration.Milliseconds()))
		}
		if observer != nil {
			observer(name, duration, failed)
		}
	}

	return &event.CommandMonitor{
		Succeeded: func(ctx context.Context, e *event.CommandSucceededEvent) {
			finish(ctx, e.CommandName, e.DurationNanos, false)
		},
		Failed: func(ctx context.Context, e *event.CommandFailedEvent) {
			finish(ctx, e.CommandName, e.DurationNanos, true)
		},
	}
}

// Collection 返回指定集合
func (d *Database) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// Name 返回数据库名称
func (d *Database) Name() string {
	return d.db.Name()
}

// Ping 检查服务器是否可达并记录健康状态
func (d *Database) Ping(ctx context.Context) error {
	if d.closed.Load() {
		return ErrClosed
	}

	err := d.client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()

	d.mu.Lock()
	d.health.LastHealthCheck = time.Now()
	d.health.IsHealthy = err == nil
	d.health.ErrorMessage = ""
	if err != nil {
		d.health.ErrorMessage = err.Error()
	}
	d.mu.Unlock()

	return err
}

// EnsureIndex 创建索引；同名同定义的索引已存在时服务端返回成功
func (d *Database) EnsureIndex(ctx context.Context, collection string, spec IndexSpec) error {
	if d.closed.Load() {
		return ErrClosed
	}
	if spec.Field == "" {
		return errors.New("database: index field is required")
	}

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: spec.Field, Value: 1}},
		Options: options.Index().SetUnique(spec.Unique),
	}

	name, err := d.db.Collection(collection).Indexes().CreateOne(ctx, model)
	if err != nil {
		return fmt.Errorf("create index on %s.%s: %w", collection, spec.Field, err)
	}

	d.logger.Info(ctx, "Index ensured",
		logger.String("collection", collection),
		logger.String("index", name),
		logger.Bool("unique", spec.Unique))
	return nil
}

// Close 断开客户端；重复调用返回 ErrClosed
func (d *Database) Close(ctx context.Context) error {
	if !d.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return d.client.Disconnect(ctx)
}

// HealthStatus 返回最近一次健康检查结果
func (d *Database) HealthStatus() HealthStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.health
}

// CommandStats 返回命令统计快照
func (d *Database) CommandStats() CommandStats {
	return CommandStats{
		TotalCommands:  d.totalCommands.Load(),
		FailedCommands: d.failedCommands.Load(),
		SlowCommands:   d.slowCommands.Load(),
	}
}
