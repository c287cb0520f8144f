package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const userKeyPrefix = "user:"

// RedisStore はユーザーを JSON として Redis に保存します。
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore は RedisStore を作成します。
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// FindByUsername はユーザー名でユーザーを取得します。
func (s *RedisStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	data, err := s.rdb.Get(ctx, userKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get user: %w", err)
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", username, err)
	}
	return &u, nil
}

// Create は SETNX でユーザーを保存します。キーが既にあれば ErrUserExists を返します。
func (s *RedisStore) Create(ctx context.Context, user *User) error {
	record := *user
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(&record)
	if err != nil {
		return err
	}

	ok, err := s.rdb.SetNX(ctx, userKey(record.Username), payload, 0).Result()
	if err != nil {
		return fmt.Errorf("redis set user: %w", err)
	}
	if !ok {
		return ErrUserExists
	}
	*user = record
	return nil
}

// Ping は Redis への疎通を確認します。
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func userKey(username string) string {
	return userKeyPrefix + username
}
