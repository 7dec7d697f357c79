package routes

import (
	"mindmaze-api/internal/handlers"

	"github.com/gin-gonic/gin"
)

type AuthRoutes struct {
	handler *handlers.AuthHandler
	limiter gin.HandlerFunc
}

// NewAuthRoutes limiter 为 nil 时不限流
func NewAuthRoutes(handler *handlers.AuthHandler, limiter gin.HandlerFunc) *AuthRoutes {
	return &AuthRoutes{handler: handler, limiter: limiter}
}

func (a *AuthRoutes) Name() string { return "auth" }

func (a *AuthRoutes) Register(r gin.IRouter) {
	api := r.Group("/api")
	if a.limiter != nil {
		api.Use(a.limiter)
	}
	api.POST("/signup", a.handler.Signup)
	api.POST("/login", a.handler.Login)
}
