package repositories

import (
	"context"
	"testing"
	"time"

	"mindmaze-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const usersNS = "mindmaze.users"

func newRepo(mt *mtest.T) UserRepository {
	return NewUserRepositoryFromCollection(mt.Client.Database("mindmaze").Collection("users"))
}

func TestUserRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("assigns id and timestamp", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &models.User{Username: "alice", PasswordHash: "hash"}
		require.NoError(t, repo.Create(context.Background(), user))

		assert.False(t, user.ID.IsZero())
		assert.False(t, user.CreatedAt.IsZero())
	})

	mt.Run("duplicate username", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: mindmaze.users index: username_1",
		}))

		err := repo.Create(context.Background(), &models.User{Username: "alice", PasswordHash: "hash"})
		assert.ErrorIs(t, err, ErrDuplicateUsername)
	})

	mt.Run("other write error", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    91,
			Name:    "ShutdownInProgress",
			Message: "shutdown in progress",
		}))

		err := repo.Create(context.Background(), &models.User{Username: "alice", PasswordHash: "hash"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrDuplicateUsername)
	})
}

func TestUserRepository_GetByUsername(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("found", func(mt *mtest.T) {
		repo := newRepo(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "username", Value: "alice"},
			{Key: "password_hash", Value: "hash"},
			{Key: "score", Value: 42},
			{Key: "games_played", Value: 3},
			{Key: "created_at", Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		}))

		user, err := repo.GetByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "hash", user.PasswordHash)
		assert.Equal(t, 42, user.Score)
		assert.Equal(t, 3, user.GamesPlayed)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		_, err := repo.GetByUsername(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepository_Count(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("counts documents", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: 1},
			{Key: "n", Value: int32(7)},
		}))

		n, err := repo.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(7), n)
	})
}

func TestUserRepository_TopByScore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("decodes entries in server order", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch,
			bson.D{{Key: "username", Value: "alice"}, {Key: "score", Value: 120}},
			bson.D{{Key: "username", Value: "bob"}, {Key: "score", Value: 80}},
		))

		entries, err := repo.TopByScore(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, []models.LeaderboardEntry{
			{Username: "alice", Score: 120},
			{Username: "bob", Score: 80},
		}, entries)

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "find", started.CommandName)
		limit, ok := started.Command.Lookup("limit").AsInt64OK()
		require.True(t, ok)
		assert.Equal(t, int64(10), limit)
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		entries, err := repo.TopByScore(context.Background(), 10)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})
}
