package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 基于 zap 的结构化日志接口
type Logger interface {
	Debug(ctx context.Context, message string, fields ...Field)
	Info(ctx context.Context, message string, fields ...Field)
	Warn(ctx context.Context, message string, fields ...Field)
	Error(ctx context.Context, message string, fields ...Field)
	Fatal(ctx context.Context, message string, fields ...Field)

	// WithFields 返回始终携带给定字段的日志记录器
	WithFields(fields ...Field) Logger

	// WithModule 返回带模块名的日志记录器
	WithModule(module string) Logger

	Sync() error
}

// Field 结构化日志的键值对
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

type correlationIDKey struct{}

// ContextWithCorrelationID 将关联ID写入上下文，日志记录时自动带出
func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// CorrelationIDFromContext 读取上下文中的关联ID
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

type zapLogger struct {
	logger *zap.Logger
	module string
	fields []Field
}

// NewZapLogger 包装一个 zap.Logger
func NewZapLogger(l *zap.Logger) Logger {
	return &zapLogger{logger: l}
}

// NewNop 返回丢弃所有输出的日志记录器
func NewNop() Logger {
	return NewZapLogger(zap.NewNop())
}

func (l *zapLogger) Debug(ctx context.Context, message string, fields ...Field) {
	l.log(ctx, zapcore.DebugLevel, message, fields)
}

func (l *zapLogger) Info(ctx context.Context, message string, fields ...Field) {
	l.log(ctx, zapcore.InfoLevel, message, fields)
}

func (l *zapLogger) Warn(ctx context.Context, message string, fields ...Field) {
	l.log(ctx, zapcore.WarnLevel, message, fields)
}

func (l *zapLogger) Error(ctx context.Context, message string, fields ...Field) {
	l.log(ctx, zapcore.ErrorLevel, message, fields)
}

func (l *zapLogger) Fatal(ctx context.Context, message string, fields ...Field) {
	l.log(ctx, zapcore.FatalLevel, message, fields)
}

func (l *zapLogger) WithFields(fields ...Field) Logger {
	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)
	return &zapLogger{logger: l.logger, module: l.module, fields: all}
}

func (l *zapLogger) WithModule(module string) Logger {
	return &zapLogger{logger: l.logger, module: module, fields: l.fields}
}

func (l *zapLogger) Sync() error {
	return l.logger.Sync()
}

func (l *zapLogger) log(ctx context.Context, level zapcore.Level, message string, fields []Field) {
	ce := l.logger.Check(level, message)
	if ce == nil {
		return
	}

	zapFields := make([]zap.Field, 0, len(l.fields)+len(fields)+2)
	if l.module != "" {
		zapFields = append(zapFields, zap.String("module", l.module))
	}
	for _, f := range l.fields {
		zapFields = append(zapFields, toZapField(f))
	}
	for _, f := range fields {
		zapFields = append(zapFields, toZapField(f))
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		zapFields = append(zapFields, zap.String("correlation_id", id))
	}

	ce.Write(zapFields...)
}

func toZapField(field Field) zap.Field {
	switch v := field.Value.(type) {
	case string:
		return zap.String(field.Key, v)
	case int:
		return zap.Int(field.Key, v)
	case int64:
		return zap.Int64(field.Key, v)
	case float64:
		return zap.Float64(field.Key, v)
	case bool:
		return zap.Bool(field.Key, v)
	default:
		return zap.Any(field.Key, v)
	}
}
