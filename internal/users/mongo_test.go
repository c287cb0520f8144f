package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find existing user", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "username", Value: "alice"},
			{Key: "password", Value: "pw1"},
		}))

		got, err := NewMongoStore(mt.Coll).FindByUsername(context.Background(), "alice")
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), got.ID)
		assert.Equal(mt, "alice", got.Username)
		assert.Equal(mt, "pw1", got.Password)
	})

	mt.Run("find missing user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := NewMongoStore(mt.Coll).FindByUsername(context.Background(), "ghost")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("find command error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "boom",
		}))

		_, err := NewMongoStore(mt.Coll).FindByUsername(context.Background(), "alice")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("create user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := &User{Username: "alice", Password: "pw1"}
		require.NoError(mt, NewMongoStore(mt.Coll).Create(context.Background(), u))
		assert.NotEmpty(mt, u.ID)
		assert.False(mt, u.CreatedAt.IsZero())
	})

	mt.Run("create duplicate user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: pixmon.users index: username_unique",
		}))

		u := &User{Username: "alice", Password: "pw1"}
		err := NewMongoStore(mt.Coll).Create(context.Background(), u)
		assert.ErrorIs(mt, err, ErrUserExists)
		assert.Empty(mt, u.ID)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, NewMongoStore(mt.Coll).EnsureIndexes(context.Background()))
	})
}
