package services

import (
	"context"

	"mindmaze-api/internal/models"
	"mindmaze-api/internal/repositories"
	apperrors "mindmaze-api/pkg/errors"
)

// LeaderboardSize 排行榜返回的条目数
const LeaderboardSize = 10

// Presence 实时连接状态来源
type Presence interface {
	ConnectedCount() int
	ActiveLobbies() int
}

// StatsService defines the interface for leaderboard and platform statistics
type StatsService interface {
	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
	Stats(ctx context.Context) (models.Stats, error)
}

type statsService struct {
	userRepo repositories.UserRepository
	presence Presence
}

// NewStatsService creates a new stats service; presence may be nil
func NewStatsService(userRepo repositories.UserRepository, presence Presence) StatsService {
	return &statsService{userRepo: userRepo, presence: presence}
}

// Leaderboard returns the top players by score
func (s *statsService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	entries, err := s.userRepo.TopByScore(ctx, LeaderboardSize)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to load leaderboard", err)
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	return entries, nil
}

// Stats returns total users plus live realtime figures
func (s *statsService) Stats(ctx context.Context) (models.Stats, error) {
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return models.Stats{}, apperrors.NewDatabaseError("failed to count users", err)
	}

	stats := models.Stats{TotalUsers: total}
	if s.presence != nil {
		stats.ConnectedPlayers = s.presence.ConnectedCount()
		stats.ActiveGames = s.presence.ActiveLobbies()
	}
	return stats, nil
}
