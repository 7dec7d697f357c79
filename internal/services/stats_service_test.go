package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"mindmaze-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresence struct {
	connected int
	lobbies   int
}

func (f fakePresence) ConnectedCount() int { return f.connected }
func (f fakePresence) ActiveLobbies() int  { return f.lobbies }

func TestStatsService_Leaderboard(t *testing.T) {
	ctx := context.Background()

	t.Run("requests top ten", func(t *testing.T) {
		repo := &MockUserRepository{}
		rows := []models.LeaderboardEntry{{Username: "alice", Score: 10}}
		repo.On("TopByScore", ctx, LeaderboardSize).Return(rows, nil).Once()

		got, err := NewStatsService(repo, nil).Leaderboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, rows, got)
	})

	t.Run("nil becomes empty list", func(t *testing.T) {
		repo := &MockUserRepository{}
		repo.On("TopByScore", ctx, LeaderboardSize).Return(nil, nil).Once()

		got, err := NewStatsService(repo, nil).Leaderboard(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("error", func(t *testing.T) {
		repo := &MockUserRepository{}
		repo.On("TopByScore", ctx, LeaderboardSize).Return(nil, errors.New("down")).Once()

		_, err := NewStatsService(repo, nil).Leaderboard(ctx)
		requireAppError(t, err, http.StatusInternalServerError, "")
	})
}

func TestStatsService_Stats(t *testing.T) {
	ctx := context.Background()
	repo := &MockUserRepository{}
	repo.On("Count", ctx).Return(int64(12), nil).Once()

	stats, err := NewStatsService(repo, fakePresence{connected: 3, lobbies: 1}).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{TotalUsers: 12, ActiveGames: 1, ConnectedPlayers: 3}, stats)
}

func TestStatsService_StatsWithoutPresence(t *testing.T) {
	ctx := context.Background()
	repo := &MockUserRepository{}
	repo.On("Count", ctx).Return(int64(2), nil).Once()

	stats, err := NewStatsService(repo, nil).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{TotalUsers: 2}, stats)
}
