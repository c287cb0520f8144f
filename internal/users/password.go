package users

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordScheme はパスワードの保存形式を表します。
type PasswordScheme interface {
	Encode(password string) (string, error)
	Verify(stored, password string) bool
}

// BcryptScheme は bcrypt ハッシュで保存します。
type BcryptScheme struct {
	Cost int
}

// Encode はパスワードを bcrypt でハッシュ化します。
func (s BcryptScheme) Encode(password string) (string, error) {
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify は保存済みハッシュと入力パスワードを比較します。
func (s BcryptScheme) Verify(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// PlainScheme はパスワードをそのまま保存します。
// 既存データとの互換用で、本番での利用は推奨しません。
type PlainScheme struct{}

// Encode は入力をそのまま返します。
func (PlainScheme) Encode(password string) (string, error) {
	return password, nil
}

// Verify は定数時間で完全一致を確認します。
func (PlainScheme) Verify(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// SchemeByName は設定値から PasswordScheme を返します。
func SchemeByName(name string) (PasswordScheme, error) {
	switch name {
	case "bcrypt":
		return BcryptScheme{}, nil
	case "plain":
		return PlainScheme{}, nil
	default:
		return nil, errors.New("unknown password scheme: " + name)
	}
}
