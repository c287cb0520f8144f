package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pixmon/pixmon-web/internal/config"
	"github.com/pixmon/pixmon-web/internal/users"
)

func TestOpenMemory(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	backend, err := Open(context.Background(), &config.Config{StoreDriver: config.StoreMemory}, zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close(context.Background()) })

	assert.Equal(t, config.StoreMemory, backend.Driver)
	assert.IsType(t, &users.MemoryStore{}, backend.Store)
	assert.NoError(t, backend.Ping(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("using in-memory user store; data is lost on restart").Len())
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		StoreDriver:  config.StoreRedis,
		RedisURL:     "redis://" + mr.Addr() + "/0",
		StoreTimeout: time.Second,
	}

	backend, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer backend.Close(context.Background())

	assert.IsType(t, &users.RedisStore{}, backend.Store)
	assert.NoError(t, backend.Ping(context.Background()))

	ctx := context.Background()
	require.NoError(t, backend.Store.Create(ctx, &users.User{Username: "alice", Password: "pw1"}))
	got, err := backend.Store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestOpenRedisBadURL(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{
		StoreDriver: config.StoreRedis,
		RedisURL:    "not a url",
	}, nil)
	assert.Error(t, err)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreDriver: "sqlite"}, nil)
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestOpenNilConfig(t *testing.T) {
	_, err := Open(context.Background(), nil, nil)
	assert.Error(t, err)
}
