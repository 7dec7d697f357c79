package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"mindmaze-api/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DateRotatingWriter 按日期轮转的日志写入器
type DateRotatingWriter struct {
	mu          sync.Mutex
	directory   string
	maxAge      int
	currentDate string
	file        *os.File
	now         func() time.Time
}

// NewDateRotatingWriter 创建新的按日期轮转的日志写入器
func NewDateRotatingWriter(directory string, maxAge int) *DateRotatingWriter {
	return &DateRotatingWriter{
		directory: directory,
		maxAge:    maxAge,
		now:       time.Now,
	}
}

// Write 实现io.Writer接口
func (w *DateRotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	today := w.now().Format("2006-01-02")
	if w.file == nil || today != w.currentDate {
		if err := w.rotate(today); err != nil {
			return 0, err
		}
	}

	return w.file.Write(p)
}

func (w *DateRotatingWriter) rotate(date string) error {
	if w.file != nil {
		w.file.Close()
	}

	if err := os.MkdirAll(w.directory, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join(w.directory, fmt.Sprintf("%s.log", date))
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", filename, err)
	}

	w.currentDate = date
	w.file = file

	go w.cleanOldFiles()

	return nil
}

// cleanOldFiles 清理超过保留期的旧日志文件
func (w *DateRotatingWriter) cleanOldFiles() {
	if w.maxAge <= 0 {
		return
	}

	cutoff := w.now().AddDate(0, 0, -w.maxAge)

	files, err := filepath.Glob(filepath.Join(w.directory, "*.log"))
	if err != nil {
		return
	}

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(file)
		}
	}
}

// Sync 同步缓冲区
func (w *DateRotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Sync()
	}
	return nil
}

// Close 关闭写入器
func (w *DateRotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}

// Manager 管理日志记录器实例
// 日志级别和格式可在运行时调整，输出目标变更需要重启
type Manager struct {
	mu         sync.RWMutex
	config     config.LoggingConfig
	level      zap.AtomicLevel
	core       *reloadableCore
	zapLogger  *zap.Logger
	logger     Logger
	fileWriter *DateRotatingWriter
	started    bool
}

// NewManager 创建一个新的日志管理器
func NewManager(cfg config.LoggingConfig) (*Manager, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	atomicLevel := zap.NewAtomicLevelAt(level)

	var fileWriter *DateRotatingWriter
	if cfg.Output == "file" || cfg.Output == "both" {
		fileWriter = NewDateRotatingWriter(cfg.Directory, cfg.MaxAge)
	}

	core, err := buildCore(cfg, atomicLevel, fileWriter)
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	root := newReloadableCore(core)
	// 跳过 zapLogger.log 和接口方法两层调用栈
	zapLogger := zap.New(root, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zapcore.ErrorLevel))

	return &Manager{
		config:     cfg,
		level:      atomicLevel,
		core:       root,
		zapLogger:  zapLogger,
		logger:     NewZapLogger(zapLogger),
		fileWriter: fileWriter,
	}, nil
}

// Start 启动日志管理器
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return fmt.Errorf("logger manager is already started")
	}

	m.started = true
	return nil
}

// Stop 停止日志管理器
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil
	}

	// stdout 上 Sync 可能返回 "invalid argument"，忽略即可
	_ = m.zapLogger.Sync()

	if m.fileWriter != nil {
		if err := m.fileWriter.Close(); err != nil {
			return fmt.Errorf("failed to close file writer: %w", err)
		}
	}

	m.started = false
	return nil
}

// GetLogger 返回带模块名的日志记录器；未启动时返回空操作记录器
func (m *Manager) GetLogger(name string) Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.started {
		return NewNop()
	}

	return m.logger.WithModule(name)
}

// UpdateConfig 应用新的日志配置
func (m *Manager) UpdateConfig(newConfig config.LoggingConfig) error {
	level, err := parseLogLevel(newConfig.Level)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.level.SetLevel(level)
	m.config.Level = newConfig.Level

	if newConfig.Output != m.config.Output || newConfig.Directory != m.config.Directory {
		return fmt.Errorf("logging output changes require a restart")
	}

	if newConfig.Format != m.config.Format {
		next := m.config
		next.Format = newConfig.Format
		core, err := buildCore(next, m.level, m.fileWriter)
		if err != nil {
			return err
		}
		// 已发出的 Logger 共用同一个 reloadableCore，随之切换格式
		_ = m.core.swap(core).Sync()
		m.config.Format = newConfig.Format
	}
	return nil
}

// RedirectStdLog 将标准库 log 的输出转到 zap，返回恢复函数
func (m *Manager) RedirectStdLog() func() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return zap.RedirectStdLog(m.zapLogger.With(zap.String("module", "stdlog")))
}

// Level 返回当前生效的日志级别
func (m *Manager) Level() zapcore.Level {
	return m.level.Level()
}

// IsStarted 返回日志管理器是否已启动
func (m *Manager) IsStarted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.started
}

func encoderConfig(color bool) zapcore.EncoderConfig {
	levelEncoder := zapcore.CapitalLevelEncoder
	if color {
		levelEncoder = zapcore.CapitalColorLevelEncoder
	}

	return zapcore.EncoderConfig{
		TimeKey:          "timestamp",
		LevelKey:         "level",
		NameKey:          "logger",
		CallerKey:        "caller",
		MessageKey:       "message",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      levelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: " ",
	}
}

func newEncoder(format string, color bool) zapcore.Encoder {
	if format == "json" {
		// JSON 中不使用颜色转义
		return zapcore.NewJSONEncoder(encoderConfig(false))
	}
	return zapcore.NewConsoleEncoder(encoderConfig(color))
}

func buildCore(cfg config.LoggingConfig, level zap.AtomicLevel, fileWriter *DateRotatingWriter) (zapcore.Core, error) {
	var cores []zapcore.Core

	switch cfg.Output {
	case "stdout", "console":
		cores = append(cores, zapcore.NewCore(newEncoder(cfg.Format, true), zapcore.AddSync(os.Stdout), level))
	case "file":
		cores = append(cores, zapcore.NewCore(newEncoder(cfg.Format, false), zapcore.AddSync(fileWriter), level))
	case "both":
		cores = append(cores,
			zapcore.NewCore(newEncoder(cfg.Format, true), zapcore.AddSync(os.Stdout), level),
			zapcore.NewCore(newEncoder(cfg.Format, false), zapcore.AddSync(fileWriter), level),
		)
	default:
		return nil, fmt.Errorf("unsupported output type: %s", cfg.Output)
	}

	return zapcore.NewTee(cores...), nil
}

type coreHolder struct {
	core zapcore.Core
}

// reloadableCore 把写入转发给当前生效的 core
// With 只记录字段，写入时再附加，这样替换 core 后子 Logger 也能生效
type reloadableCore struct {
	current *atomic.Pointer[coreHolder]
	fields  []zapcore.Field
}

func newReloadableCore(core zapcore.Core) *reloadableCore {
	c := &reloadableCore{current: &atomic.Pointer[coreHolder]{}}
	c.current.Store(&coreHolder{core: core})
	return c
}

// swap 替换底层 core，返回旧的 core
func (c *reloadableCore) swap(core zapcore.Core) zapcore.Core {
	return c.current.Swap(&coreHolder{core: core}).core
}

func (c *reloadableCore) load() zapcore.Core {
	return c.current.Load().core
}

func (c *reloadableCore) Enabled(level zapcore.Level) bool {
	return c.load().Enabled(level)
}

func (c *reloadableCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &reloadableCore{current: c.current, fields: merged}
}

func (c *reloadableCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *reloadableCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if len(c.fields) == 0 {
		return c.load().Write(ent, fields)
	}
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)
	return c.load().Write(ent, all)
}

func (c *reloadableCore) Sync() error {
	return c.load().Sync()
}

func parseLogLevel(levelStr string) (zapcore.Level, error) {
	switch levelStr {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "fatal":
		return zapcore.FatalLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unsupported log level: %s", levelStr)
	}
}
