package routes

import (
	"mindmaze-api/internal/handlers"

	"github.com/gin-gonic/gin"
)

type GameRoutes struct {
	handler *handlers.GameHandler
}

func NewGameRoutes(handler *handlers.GameHandler) *GameRoutes {
	return &GameRoutes{handler: handler}
}

func (g *GameRoutes) Name() string { return "game" }

func (g *GameRoutes) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/leaderboard", g.handler.Leaderboard)
	api.GET("/stats", g.handler.Stats)
}
