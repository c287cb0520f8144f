// Package storage は設定に応じてユーザーストアのバックエンドを開き、接続のライフサイクルを管理します。
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/pixmon/pixmon-web/internal/config"
	"github.com/pixmon/pixmon-web/internal/users"
)

// Backend は開いたユーザーストアと、その後片付け処理をまとめたものです。
type Backend struct {
	Driver string
	Store  users.Store
	close  func(ctx context.Context) error
}

// Open は cfg.StoreDriver に対応するストアに接続します。
// 接続確認やインデックス・マイグレーションの準備は cfg.StoreTimeout 以内に行います。
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.StoreTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.StoreTimeout)
		defer cancel()
	}

	var (
		backend *Backend
		err     error
	)
	switch cfg.StoreDriver {
	case config.StoreMongo:
		backend, err = openMongo(ctx, cfg)
	case config.StoreRedis:
		backend, err = openRedis(ctx, cfg)
	case config.StorePostgres:
		backend, err = openPostgres(ctx, cfg)
	case config.StoreMemory:
		logger.Warn("using in-memory user store; data is lost on restart")
		backend = &Backend{Store: users.NewMemoryStore()}
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}

	backend.Driver = cfg.StoreDriver
	logger.Info("user store ready", zap.String("driver", backend.Driver))
	return backend, nil
}

// Ping はストアが疎通確認に対応していれば実行します。
func (b *Backend) Ping(ctx context.Context) error {
	if p, ok := b.Store.(users.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close は接続を閉じます。
func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

func openMongo(ctx context.Context, cfg *config.Config) (*Backend, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongo: %w", err)
	}

	store := users.NewMongoStore(client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection))
	if err := store.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Backend{
		Store: store,
		close: client.Disconnect,
	}, nil
}

func openRedis(ctx context.Context, cfg *config.Config) (*Backend, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	store := users.NewRedisStore(rdb)
	if err := store.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Backend{
		Store: store,
		close: func(context.Context) error { return rdb.Close() },
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*Backend, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	store := users.NewPostgresStore(db)
	if err := store.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Backend{
		Store: store,
		close: func(context.Context) error { return db.Close() },
	}, nil
}
