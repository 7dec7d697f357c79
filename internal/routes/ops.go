package routes

import (
	"net/http"

	"mindmaze-api/internal/handlers"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// OpsRoutes 健康检查、指标与接口文档
type OpsRoutes struct {
	health  *handlers.HealthHandler
	metrics http.Handler
	docs    bool
}

// NewOpsRoutes metrics 为 nil 时不暴露 /metrics
func NewOpsRoutes(health *handlers.HealthHandler, metrics http.Handler, docs bool) *OpsRoutes {
	return &OpsRoutes{health: health, metrics: metrics, docs: docs}
}

func (o *OpsRoutes) Name() string { return "ops" }

func (o *OpsRoutes) Register(r gin.IRouter) {
	health := r.Group("/api/health")
	health.GET("/live", o.health.Live)
	health.GET("/ready", o.health.Ready)

	if o.metrics != nil {
		r.GET("/metrics", gin.WrapH(o.metrics))
	}
	if o.docs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
