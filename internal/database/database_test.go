package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestDatabase_Ping(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("success", func(mt *mtest.T) {
		db := NewFromClient(mt.Client, "mindmaze", nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(t, db.Ping(context.Background()))

		status := db.HealthStatus()
		assert.True(t, status.IsHealthy)
		assert.Empty(t, status.ErrorMessage)
		assert.False(t, status.LastHealthCheck.IsZero())
	})

	mt.Run("command error", func(mt *mtest.T) {
		db := NewFromClient(mt.Client, "mindmaze", nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "command ping requires authentication",
		}))

		err := db.Ping(context.Background())
		require.Error(t, err)

		status := db.HealthStatus()
		assert.False(t, status.IsHealthy)
		assert.Contains(t, status.ErrorMessage, "requires authentication")
	})
}

func TestDatabase_EnsureIndex(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("creates unique index", func(mt *mtest.T) {
		db := NewFromClient(mt.Client, "mindmaze", nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := db.EnsureIndex(context.Background(), UsersCollection, IndexSpec{Field: "username", Unique: true})
		require.NoError(t, err)

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "createIndexes", started.CommandName)
	})

	mt.Run("conflicting index", func(mt *mtest.T) {
		db := NewFromClient(mt.Client, "mindmaze", nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    86,
			Name:    "IndexKeySpecsConflict",
			Message: "An existing index has the same name as the requested index",
		}))

		err := db.EnsureIndex(context.Background(), UsersCollection, IndexSpec{Field: "username", Unique: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "users.username")
	})

	mt.Run("missing field", func(mt *mtest.T) {
		db := NewFromClient(mt.Client, "mindmaze", nil)
		assert.Error(t, db.EnsureIndex(context.Background(), UsersCollection, IndexSpec{}))
	})
}

func TestDatabase_CloseOnce(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("second close reports closed", func(mt *mtest.T) {
		db := NewFromClient(mt.Client, "mindmaze", nil)

		require.NoError(t, db.Close(context.Background()))
		assert.ErrorIs(t, db.Close(context.Background()), ErrClosed)
		assert.ErrorIs(t, db.Ping(context.Background()), ErrClosed)
	})
}
