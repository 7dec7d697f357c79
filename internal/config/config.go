package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DefaultAllowedOrigins 前端开发服务器的默认来源列表
var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173", // Vite 默认端口
	"http://127.0.0.1:5173",
	"http://localhost:5174",
}

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Realtime  RealtimeConfig  `mapstructure:"realtime"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Mode      string          `mapstructure:"mode"`
}

// AppConfig 应用元信息
type AppConfig struct {
	Title   string `mapstructure:"title"`   // 应用标题
	Version string `mapstructure:"version"` // 应用版本
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port            string `mapstructure:"port"`             // 端口号
	Host            string `mapstructure:"host"`             // 主机地址
	ReadTimeout     int    `mapstructure:"read_timeout"`     // 读取超时时间（秒）
	WriteTimeout    int    `mapstructure:"write_timeout"`    // 写入超时时间（秒）
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // 优雅关闭超时时间（秒）
}

// DatabaseConfig MongoDB 配置
type DatabaseConfig struct {
	URI            string `mapstructure:"uri"`             // 连接字符串
	Name           string `mapstructure:"name"`            // 数据库名称
	MaxPoolSize    uint64 `mapstructure:"max_pool_size"`   // 最大连接池大小
	ConnectTimeout int    `mapstructure:"connect_timeout"` // 启动检查超时时间（秒）
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`   // 是否启用
	Host     string `mapstructure:"host"`      // 主机地址
	Port     int    `mapstructure:"port"`      // 端口号
	Password string `mapstructure:"password"`  // 密码
	DB       int    `mapstructure:"db"`        // 数据库编号
	PoolSize int    `mapstructure:"pool_size"` // 连接池大小
}

// CacheConfig 缓存TTL配置（秒）
type CacheConfig struct {
	LeaderboardTTL int `mapstructure:"leaderboard_ttl"`
	StatsTTL       int `mapstructure:"stats_ttl"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`   // 允许的来源（精确匹配）
	AllowCredentials bool     `mapstructure:"allow_credentials"` // 是否允许携带凭证
}

// AuthConfig 认证配置
type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"` // bcrypt加密成本
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool    `mapstructure:"enabled"`  // 是否启用
	Requests float64 `mapstructure:"requests"` // 每秒允许的请求数
	Burst    int     `mapstructure:"burst"`    // 突发容量
}

// RealtimeConfig WebSocket 配置
type RealtimeConfig struct {
	MaxLobbyPlayers int   `mapstructure:"max_lobby_players"` // 每个大厅的最大人数
	MaxMessageSize  int64 `mapstructure:"max_message_size"`  // 单条消息最大字节数
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level     string `mapstructure:"level"`     // 日志级别
	Format    string `mapstructure:"format"`    // 日志格式
	Output    string `mapstructure:"output"`    // 输出位置
	Directory string `mapstructure:"directory"` // 日志文件目录
	MaxAge    int    `mapstructure:"max_age"`   // 日志文件最大保存天数
}

// ConnectTimeoutDuration 返回启动检查的超时时间
func (d DatabaseConfig) ConnectTimeoutDuration() time.Duration {
	return time.Duration(d.ConnectTimeout) * time.Second
}

// ShutdownTimeoutDuration 返回优雅关闭的超时时间
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// Address 返回监听地址
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// currentEnv 读取 APP_ENV，默认 development
func currentEnv() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	return env
}

// LoadConfig 从 ./configs 加载当前环境的配置文件
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("./configs", currentEnv())
}

// LoadConfigFrom 从指定目录加载 <env>.yaml，环境变量 APP_* 优先
func LoadConfigFrom(dir, env string) (*Config, error) {
	v := viper.New()

	v.SetConfigName(env)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AddConfigPath(".")

	// APP_DATABASE_URI -> database.uri
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, env)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("未找到配置文件，使用默认值和环境变量")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Mode = env

	return &cfg, nil
}

func setDefaults(v *viper.Viper, env string) {
	v.SetDefault("mode", env)
	v.SetDefault("app.title", "MindMaze API")
	v.SetDefault("app.version", "1.1.0")

	v.SetDefault("server.port", "8000")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.shutdown_timeout", 5)

	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "mindmaze")
	v.SetDefault("database.connect_timeout", 10)
	if env == "production" {
		v.SetDefault("database.max_pool_size", 50)
	} else {
		v.SetDefault("database.max_pool_size", 20)
	}

	// Redis默认值
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("cache.leaderboard_ttl", 30)
	v.SetDefault("cache.stats_ttl", 10)

	v.SetDefault("cors.allowed_origins", DefaultAllowedOrigins)
	v.SetDefault("cors.allow_credentials", true)

	v.SetDefault("auth.bcrypt_cost", 12)

	// 速率限制默认值：每个客户端每秒5次，突发20次
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 5)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("realtime.max_lobby_players", 8)
	v.SetDefault("realtime.max_message_size", 4096)

	// 日志默认值
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.directory", "./logs")
	v.SetDefault("logging.max_age", 28)
}

// IsProduction 检查是否为生产环境
func IsProduction(mode string) bool {
	return mode == "production"
}

// LoggingChangeHandler 日志配置变更回调
type LoggingChangeHandler func(ctx context.Context, oldCfg, newCfg LoggingConfig)

// ConfigManager 持有当前配置，并在文件变更时热重载日志配置
type ConfigManager struct {
	mu       sync.RWMutex
	dir      string
	env      string
	config   *Config
	watcher  *fsnotify.Watcher
	handlers []LoggingChangeHandler
	ctx      context.Context
	cancel   context.CancelFunc
	running  bool
}

// NewConfigManager 加载并验证初始配置
func NewConfigManager() (*ConfigManager, error) {
	return NewConfigManagerFrom("./configs", currentEnv())
}

// NewConfigManagerFrom 从指定目录创建配置管理器
func NewConfigManagerFrom(dir, env string) (*ConfigManager, error) {
	cfg, err := LoadConfigFrom(dir, env)
	if err != nil {
		return nil, fmt.Errorf("加载初始配置失败: %w", err)
	}

	result := NewValidator(cfg).Validate()
	if !result.Valid {
		return nil, fmt.Errorf("初始配置验证失败: %s", result.FormatErrors())
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &ConfigManager{
		dir:    dir,
		env:    env,
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// GetConfig 返回当前配置
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnLoggingChange 注册日志配置变更处理器
func (cm *ConfigManager) OnLoggingChange(handler LoggingChangeHandler) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.handlers = append(cm.handlers, handler)
}

// StartWatching 开始监控配置文件
func (cm *ConfigManager) StartWatching() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.running {
		return fmt.Errorf("配置监控器已在运行")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监控器失败: %w", err)
	}

	configFile := filepath.Join(cm.dir, cm.env+".yaml")
	if err := watcher.Add(configFile); err != nil {
		watcher.Close()
		return fmt.Errorf("将配置文件添加到监控器失败: %w", err)
	}

	cm.watcher = watcher
	cm.running = true

	go cm.watchFiles()

	return nil
}

// StopWatching 停止配置文件监控
func (cm *ConfigManager) StopWatching() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if !cm.running {
		return
	}

	cm.cancel()
	cm.running = false
}

func (cm *ConfigManager) watchFiles() {
	defer cm.watcher.Close()

	for {
		select {
		case event, ok := <-cm.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Write == fsnotify.Write {
				// 编辑器可能分多次写入
				time.Sleep(100 * time.Millisecond)

				if err := cm.Reload(); err != nil {
					log.Printf("重新加载配置失败: %v", err)
				}
			}

		case err, ok := <-cm.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("文件监控器错误: %v", err)

		case <-cm.ctx.Done():
			return
		}
	}
}

// Reload 重新读取配置文件；无效配置被拒绝，保持上一次有效配置
func (cm *ConfigManager) Reload() error {
	newConfig, err := LoadConfigFrom(cm.dir, cm.env)
	if err != nil {
		return fmt.Errorf("加载新配置失败: %w", err)
	}

	result := NewValidator(newConfig).Validate()
	if !result.Valid {
		return fmt.Errorf("新配置无效: %s", result.FormatErrors())
	}

	cm.mu.Lock()
	oldConfig := cm.config
	cm.config = newConfig
	handlers := append([]LoggingChangeHandler(nil), cm.handlers...)
	cm.mu.Unlock()

	if oldConfig.Logging != newConfig.Logging {
		for _, h := range handlers {
			h(cm.ctx, oldConfig.Logging, newConfig.Logging)
		}
	}

	return nil
}
