// Package users はユーザーレコードとその永続化を提供します。
package users

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound は該当ユーザーが存在しないことを表します。
	ErrNotFound = errors.New("user not found")
	// ErrUserExists は同じユーザー名が既に登録されていることを表します。
	ErrUserExists = errors.New("username already exists")
)

// User はユーザーストアに保存されるレコードです。
// Password には PasswordScheme でエンコードした値が入ります。
type User struct {
	ID        string    `bson:"-" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Password  string    `bson:"password" json:"password"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Store はユーザーレコードの保存先です。
//
// Create はユーザー名の一意性をストア側で保証し、重複時は ErrUserExists を返します。
// FindByUsername は見つからない場合 ErrNotFound を返します。
type Store interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
}

// Pinger は疎通確認ができるストアが実装します。
type Pinger interface {
	Ping(ctx context.Context) error
}
