package handlers

import (
	"mindmaze-api/internal/models"
	"mindmaze-api/pkg/response"

	"github.com/gin-gonic/gin"
)

// Root godoc
// @Summary Service banner
// @Description Fixed payload confirming the API is online
// @Tags ops
// @Produce json
// @Success 200 {object} models.RootResponse
// @Router / [get]
func Root(c *gin.Context) {
	response.OK(c, models.RootResponse{
		Message: "Welcome to the MindMaze API!",
		Status:  "online",
	})
}
