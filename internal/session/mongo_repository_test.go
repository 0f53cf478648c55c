package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func storedDoc(id string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "session", Value: bson.D{
			{Key: "token", Value: "tok"},
			{Key: "userId", Value: int64(7)},
			{Key: "roles", Value: bson.A{RoleUser}},
			{Key: "profile", Value: bson.D{{Key: "username", Value: "alice"}}},
		}},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("put upserts the whole record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		s, _ := New("tok", 7, []string{RoleUser}, Profile{Username: "alice"})
		require.NoError(mt, NewMongoRepository(mt.Coll).Put(context.Background(), "c1", s))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "update", evt.CommandName)
		vals, err := evt.Command.Lookup("updates").Array().Values()
		require.NoError(mt, err)
		require.True(mt, vals[0].Document().Lookup("upsert").Boolean())
	})

	mt.Run("get touches updatedAt and decodes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: storedDoc("c1")}))
		got, err := NewMongoRepository(mt.Coll).Get(context.Background(), "c1")
		require.NoError(mt, err)
		require.NotNil(mt, got)
		require.Equal(mt, "tok", got.Token)
		require.Equal(mt, int64(7), got.UserID)
		require.Equal(mt, RoleSet{RoleUser}, got.Roles)
		require.Equal(mt, "alice", got.Profile.Username)

		evt := mt.GetStartedEvent()
		require.Equal(mt, "findAndModify", evt.CommandName)
		_, err = evt.Command.Lookup("update").Document().LookupErr("$set", "updatedAt")
		require.NoError(mt, err)
	})

	mt.Run("missing document reads as absent", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))
		got, err := NewMongoRepository(mt.Coll).Get(context.Background(), "gone")
		require.NoError(mt, err)
		require.Nil(mt, got)
	})

	mt.Run("cleared context is absent through the store", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
		)
		store := Bind(NewMongoRepository(mt.Coll), "c1")
		require.NoError(mt, store.Clear(context.Background()))
		require.Equal(mt, "delete", mt.GetStartedEvent().CommandName)
		_, ok := store.Current(context.Background())
		require.False(mt, ok)
	})

	mt.Run("server errors read as absent", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad value"}))
		_, ok := Bind(NewMongoRepository(mt.Coll), "c1").Current(context.Background())
		require.False(mt, ok)
	})
}
