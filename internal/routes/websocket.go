package routes

import (
	"mindmaze-api/internal/handlers"

	"github.com/gin-gonic/gin"
)

type WebSocketRoutes struct {
	handler *handlers.WebSocketHandler
}

func NewWebSocketRoutes(handler *handlers.WebSocketHandler) *WebSocketRoutes {
	return &WebSocketRoutes{handler: handler}
}

func (w *WebSocketRoutes) Name() string { return "websocket" }

func (w *WebSocketRoutes) Register(r gin.IRouter) {
	r.GET("/ws/:username", w.handler.Connect)
}
