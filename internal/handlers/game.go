package handlers

import (
	"mindmaze-api/internal/services"
	"mindmaze-api/pkg/response"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	statsService services.StatsService
}

func NewGameHandler(statsService services.StatsService) *GameHandler {
	return &GameHandler{statsService: statsService}
}

// Leaderboard godoc
// @Summary Leaderboard
// @Description Top ten players ordered by score
// @Tags game
// @Produce json
// @Success 200 {array} models.LeaderboardEntry
// @Failure 500 {object} response.ErrorBody
// @Router /api/leaderboard [get]
func (h *GameHandler) Leaderboard(c *gin.Context) {
	entries, err := h.statsService.Leaderboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}

// Stats godoc
// @Summary Platform statistics
// @Description Registered users, active lobbies and connected players
// @Tags game
// @Produce json
// @Success 200 {object} models.Stats
// @Failure 500 {object} response.ErrorBody
// @Router /api/stats [get]
func (h *GameHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}
