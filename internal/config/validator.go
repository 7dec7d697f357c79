package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError 表示配置验证错误
type ValidationError struct {
	Field   string      // 字段名
	Message string      // 错误消息
	Value   interface{} // 字段值
}

// Error 实现error接口
func (v ValidationError) Error() string {
	return fmt.Sprintf("字段 '%s' 验证失败: %s", v.Field, v.Message)
}

// ValidationResult 包含验证结果
type ValidationResult struct {
	Valid  bool              // 是否有效
	Errors []ValidationError // 错误列表
}

// FormatErrors 将所有错误格式化为多行文本
func (r *ValidationResult) FormatErrors() string {
	if len(r.Errors) == 0 {
		return ""
	}

	lines := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		lines = append(lines, "  - "+e.Error())
	}
	return strings.Join(lines, "\n")
}

func (r *ValidationResult) add(field, message string, value interface{}) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message, Value: value})
}

// Validator 提供配置验证功能
type Validator struct {
	config *Config
}

// NewValidator 创建新的配置验证器
func NewValidator(config *Config) *Validator {
	return &Validator{config: config}
}

// Validate 验证整个配置
func (v *Validator) Validate() *ValidationResult {
	result := &ValidationResult{Errors: []ValidationError{}}

	v.validateServer(result)
	v.validateDatabase(result)
	v.validateCORS(result)
	v.validateAuth(result)
	v.validateRateLimit(result)
	v.validateRealtime(result)
	v.validateLogging(result)

	result.Valid = len(result.Errors) == 0
	return result
}

func (v *Validator) validateServer(result *ValidationResult) {
	server := v.config.Server

	port, err := strconv.Atoi(server.Port)
	if err != nil || port < 1 || port > 65535 {
		result.add("server.port", "端口必须是 1-65535 之间的数字", server.Port)
	}
	if server.ShutdownTimeout <= 0 {
		result.add("server.shutdown_timeout", "关闭超时必须大于0", server.ShutdownTimeout)
	}
}

func (v *Validator) validateDatabase(result *ValidationResult) {
	db := v.config.Database

	if !strings.HasPrefix(db.URI, "mongodb://") && !strings.HasPrefix(db.URI, "mongodb+srv://") {
		result.add("database.uri", "必须以 mongodb:// 或 mongodb+srv:// 开头", "<redacted>")
	}
	if db.Name == "" {
		result.add("database.name", "数据库名称是必需的", db.Name)
	}
	if db.ConnectTimeout <= 0 {
		result.add("database.connect_timeout", "连接超时必须大于0", db.ConnectTimeout)
	}
}

func (v *Validator) validateCORS(result *ValidationResult) {
	for i, origin := range v.config.CORS.AllowedOrigins {
		if err := ValidateOrigin(origin); err != nil {
			result.add(fmt.Sprintf("cors.allowed_origins[%d]", i), err.Error(), origin)
		}
	}
}

func (v *Validator) validateAuth(result *ValidationResult) {
	// bcrypt 接受的范围是 4-31
	cost := v.config.Auth.BcryptCost
	if cost < 4 || cost > 31 {
		result.add("auth.bcrypt_cost", "bcrypt 成本必须在 4-31 之间", cost)
	}
}

func (v *Validator) validateRateLimit(result *ValidationResult) {
	rl := v.config.RateLimit
	if !rl.Enabled {
		return
	}
	if rl.Requests <= 0 {
		result.add("rate_limit.requests", "请求速率必须大于0", rl.Requests)
	}
	if rl.Burst <= 0 {
		result.add("rate_limit.burst", "突发容量必须大于0", rl.Burst)
	}
}

func (v *Validator) validateRealtime(result *ValidationResult) {
	rt := v.config.Realtime
	if rt.MaxLobbyPlayers < 1 {
		result.add("realtime.max_lobby_players", "大厅人数必须至少为1", rt.MaxLobbyPlayers)
	}
	if rt.MaxMessageSize < 64 {
		result.add("realtime.max_message_size", "消息大小上限过小", rt.MaxMessageSize)
	}
}

func (v *Validator) validateLogging(result *ValidationResult) {
	logging := v.config.Logging

	switch logging.Level {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		result.add("logging.level", "不支持的日志级别", logging.Level)
	}

	switch logging.Format {
	case "json", "text":
	default:
		result.add("logging.format", "日志格式必须是 json 或 text", logging.Format)
	}

	switch logging.Output {
	case "stdout", "console":
	case "file", "both":
		if logging.Directory == "" {
			result.add("logging.directory", "文件输出需要日志目录", logging.Directory)
		}
	default:
		result.add("logging.output", "不支持的输出类型", logging.Output)
	}
}

// ValidateOrigin 检查来源是否为 scheme://host[:port] 形式
func ValidateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("无法解析来源: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("来源协议必须是 http 或 https")
	}
	if u.Host == "" || u.Hostname() == "" {
		return fmt.Errorf("来源缺少主机名")
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return fmt.Errorf("来源只能包含协议、主机和端口")
	}
	if strings.HasSuffix(u.Host, ":") {
		return fmt.Errorf("来源端口为空")
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("来源端口无效")
		}
	}
	// 浏览器发送的 Origin 是小写的规范形式，按原样精确匹配
	if origin != u.Scheme+"://"+u.Host || u.Host != strings.ToLower(u.Host) {
		return fmt.Errorf("来源必须是小写的规范形式")
	}
	return nil
}
