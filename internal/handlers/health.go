package handlers

import (
	"context"
	"net/http"
	"time"

	"mindmaze-api/internal/database"
	"mindmaze-api/internal/models"
	"mindmaze-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReadinessSource 应用启动状态
type ReadinessSource interface {
	Ready() bool
	StateName() string
}

// Pinger 可探测的依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseReporter 提供数据库健康详情，db 实现它时就绪检查会带上详情
type DatabaseReporter interface {
	HealthStatus() database.HealthStatus
	CommandStats() database.CommandStats
}

// CacheHealth 可选的缓存依赖
type CacheHealth interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	app     ReadinessSource
	db      Pinger
	cache   CacheHealth
	version string
	timeout time.Duration
}

// NewHealthHandler cache 可以为 nil
func NewHealthHandler(app ReadinessSource, db Pinger, cache CacheHealth, version string) *HealthHandler {
	return &HealthHandler{
		app:     app,
		db:      db,
		cache:   cache,
		version: version,
		timeout: 2 * time.Second,
	}
}

// Live godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /api/health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	response.OK(c, models.HealthResponse{
		Status:  "alive",
		State:   h.app.StateName(),
		Version: h.version,
	})
}

// Ready godoc
// @Summary Readiness probe
// @Description 200 only after startup verification succeeded and the database answers a ping
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /api/health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	services := map[string]string{}
	ready := h.app.Ready()

	if err := h.db.Ping(ctx); err != nil {
		services["database"] = "unhealthy"
		ready = false
	} else {
		services["database"] = "healthy"
	}

	// 缓存不可用只影响性能，不影响就绪
	if h.cache == nil {
		services["cache"] = "not_configured"
	} else if err := h.cache.Health(ctx); err != nil {
		services["cache"] = "degraded"
	} else {
		services["cache"] = "healthy"
	}

	body := models.HealthResponse{
		Status:   "ready",
		State:    h.app.StateName(),
		Version:  h.version,
		Services: services,
	}
	if reporter, ok := h.db.(DatabaseReporter); ok {
		body.Database = databaseHealth(reporter)
	}

	if !ready {
		body.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	response.OK(c, body)
}

func databaseHealth(r DatabaseReporter) *models.DatabaseHealth {
	status := r.HealthStatus()
	stats := r.CommandStats()
	return &models.DatabaseHealth{
		LastHealthCheck: status.LastHealthCheck,
		IsHealthy:       status.IsHealthy,
		ErrorMessage:    status.ErrorMessage,
		TotalCommands:   stats.TotalCommands,
		FailedCommands:  stats.FailedCommands,
		SlowCommands:    stats.SlowCommands,
	}
}
