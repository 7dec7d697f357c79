package handlers

import (
	"net/http"

	"mindmaze-api/internal/validation"
	"mindmaze-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// WebSocketServer 实时连接入口
type WebSocketServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, username string) error
}

type WebSocketHandler struct {
	hub WebSocketServer
}

func NewWebSocketHandler(hub WebSocketServer) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Connect godoc
// @Summary Realtime connection
// @Description Upgrade to a WebSocket for presence, stats and matchmaking
// @Tags realtime
// @Param username path string true "Username"
// @Success 101 "Switching Protocols"
// @Failure 400 {object} response.ErrorBody
// @Failure 403 "Origin not allowed"
// @Router /ws/{username} [get]
func (h *WebSocketHandler) Connect(c *gin.Context) {
	username := c.Param("username")
	if !validation.IsValidUsername(username) {
		response.Detail(c, http.StatusBadRequest, "Invalid username")
		return
	}

	_ = h.hub.ServeWS(c.Writer, c.Request, username)
	c.Abort()
}
