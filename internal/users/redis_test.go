package users

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisStoreCreateAndFind(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	u := &User{Username: "alice", Password: "pw1"}
	require.NoError(t, store.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.True(t, mr.Exists("user:alice"))

	got, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "pw1", got.Password)
}

func TestRedisStoreDuplicate(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &User{Username: "alice", Password: "pw1"}))

	dup := &User{Username: "alice", Password: "pw2"}
	assert.ErrorIs(t, store.Create(ctx, dup), ErrUserExists)
	assert.Empty(t, dup.ID)

	got, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "pw1", got.Password)
}

func TestRedisStoreNotFound(t *testing.T) {
	store, _ := newRedisStore(t)
	_, err := store.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreCorruptRecord(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("user:broken", "{not json"))

	_, err := store.FindByUsername(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisStorePing(t *testing.T) {
	store, _ := newRedisStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
