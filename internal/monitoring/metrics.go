package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mindmaze"

// MetricsCollector 指标收集器接口
type MetricsCollector interface {
	// HTTP相关指标
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordRateLimited(route string)

	// 数据库相关指标
	RecordDatabaseCommand(command string, duration time.Duration, failed bool)

	// 缓存相关指标
	RecordCacheLookup(key string, hit bool)

	// 业务相关指标
	RecordUserLogin(success bool)
	RecordUserRegistration(success bool)

	// 实时连接指标
	SetConnectedPlayers(count int)
	SetActiveLobbies(count int)
	RecordWebSocketMessage(direction, msgType string)
}

// PrometheusMetricsCollector Prometheus指标收集器
// 使用独立的 Registry，测试中可以创建多个实例
type PrometheusMetricsCollector struct {
	registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	requestCount     *prometheus.CounterVec
	rateLimited      *prometheus.CounterVec
	dbCommands       *prometheus.HistogramVec
	dbErrors         *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	logins           *prometheus.CounterVec
	registrations    *prometheus.CounterVec
	connectedPlayers prometheus.Gauge
	activeLobbies    prometheus.Gauge
	wsMessages       *prometheus.CounterVec
}

// NewPrometheusMetricsCollector 创建Prometheus指标收集器
func NewPrometheusMetricsCollector() *PrometheusMetricsCollector {
	m := &PrometheusMetricsCollector{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}, []string{"route"}),
		dbCommands: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mongo_command_duration_seconds",
			Help:      "MongoDB command latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		dbErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mongo_command_errors_total",
			Help:      "Failed MongoDB commands",
		}, []string{"command"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by result",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_logins_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_registrations_total",
			Help:      "Signup attempts by outcome",
		}, []string{"outcome"}),
		connectedPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connected_players",
			Help:      "Currently connected WebSocket players",
		}),
		activeLobbies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_active_lobbies",
			Help:      "Lobbies with at least one waiting player",
		}),
		wsMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "WebSocket messages by direction and type",
		}, []string{"direction", "type"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.requestCount,
		m.rateLimited,
		m.dbCommands,
		m.dbErrors,
		m.cacheLookups,
		m.logins,
		m.registrations,
		m.connectedPlayers,
		m.activeLobbies,
		m.wsMessages,
	)
	return m
}

// Registry 返回底层注册表
func (m *PrometheusMetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回 /metrics 的 HTTP 处理器
func (m *PrometheusMetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest 记录请求次数与耗时
func (m *PrometheusMetricsCollector) RecordRequest(method, route string, status int, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.requestCount.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// RecordRateLimited 记录被限流的请求
func (m *PrometheusMetricsCollector) RecordRateLimited(route string) {
	m.rateLimited.WithLabelValues(route).Inc()
}

// RecordDatabaseCommand 记录数据库命令
func (m *PrometheusMetricsCollector) RecordDatabaseCommand(command string, duration time.Duration, failed bool) {
	m.dbCommands.WithLabelValues(command).Observe(duration.Seconds())
	if failed {
		m.dbErrors.WithLabelValues(command).Inc()
	}
}

// RecordCacheLookup 记录缓存命中或未命中
func (m *PrometheusMetricsCollector) RecordCacheLookup(_ string, hit bool) {
	m.cacheLookups.WithLabelValues(outcome(hit, "hit", "miss")).Inc()
}

// RecordUserLogin 记录登录
func (m *PrometheusMetricsCollector) RecordUserLogin(success bool) {
	m.logins.WithLabelValues(outcome(success, "success", "failure")).Inc()
}

// RecordUserRegistration 记录注册
func (m *PrometheusMetricsCollector) RecordUserRegistration(success bool) {
	m.registrations.WithLabelValues(outcome(success, "success", "failure")).Inc()
}

// SetConnectedPlayers 设置在线玩家数
func (m *PrometheusMetricsCollector) SetConnectedPlayers(count int) {
	m.connectedPlayers.Set(float64(count))
}

// SetActiveLobbies 设置活跃大厅数
func (m *PrometheusMetricsCollector) SetActiveLobbies(count int) {
	m.activeLobbies.Set(float64(count))
}

// RecordWebSocketMessage 记录 WebSocket 消息
func (m *PrometheusMetricsCollector) RecordWebSocketMessage(direction, msgType string) {
	m.wsMessages.WithLabelValues(direction, msgType).Inc()
}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
