// Package auth は登録・ログイン・ログアウトとセッションによるアクセス制御を提供します。
package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pixmon/pixmon-web/internal/logging"
	"github.com/pixmon/pixmon-web/internal/users"
)

// レスポンスとして返すプレーンテキストのメッセージ
const (
	MsgLoginFailed    = "Login failed."
	MsgUsernameExists = "Username already exists."
	MsgMissingFields  = "Username and password are required."
)

// リダイレクト先
const (
	PathIndex = "/"
	PathLogin = "/login"
	PathHome  = "/home"
)

// Manager は認証処理をまとめた構造体です。
type Manager struct {
	store  users.Store
	scheme users.PasswordScheme
	logger *zap.Logger
	// dummy は未登録ユーザーのログイン時に比較へ使う値です。
	dummy string
}

// NewManager は認証マネージャーを作成します。
func NewManager(store users.Store, scheme users.PasswordScheme, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	dummy, err := scheme.Encode("pixmon-unknown-user")
	if err != nil {
		logger.Warn("failed to prepare dummy password", zap.Error(err))
	}
	return &Manager{
		store:  store,
		scheme: scheme,
		logger: logger,
		dummy:  dummy,
	}
}

type credentials struct {
	Username string
	Password string
}

// readCredentials はフォームから username と password を読み取ります。
// キー自体が無い場合だけ false を返し、空文字は受け付けます。
func readCredentials(c *gin.Context) (credentials, bool) {
	username, ok := c.GetPostForm("username")
	if !ok {
		return credentials{}, false
	}
	password, ok := c.GetPostForm("password")
	if !ok {
		return credentials{}, false
	}
	return credentials{Username: username, Password: password}, true
}

// Login は POST /login のハンドラーです。
// 存在しないユーザーとパスワード違いは同じレスポンスになります。
func (m *Manager) Login(c *gin.Context) {
	req, ok := readCredentials(c)
	if !ok {
		c.String(http.StatusBadRequest, MsgMissingFields)
		return
	}

	user, err := m.store.FindByUsername(c.Request.Context(), req.Username)
	if err != nil && !errors.Is(err, users.ErrNotFound) {
		m.internalError(c, "user lookup failed", err)
		return
	}
	if user == nil {
		// 未登録ユーザーでも同じ比較コストを払い、応答時間で区別できないようにする
		m.scheme.Verify(m.dummy, req.Password)
		c.String(http.StatusUnauthorized, MsgLoginFailed)
		return
	}
	if !m.scheme.Verify(user.Password, req.Password) {
		c.String(http.StatusUnauthorized, MsgLoginFailed)
		return
	}

	if err := SessionFrom(c).SetUser(user.Username); err != nil {
		m.internalError(c, "session save failed", err)
		return
	}

	logging.For(c, m.logger).Info("user logged in", zap.String("username", user.Username))
	c.Redirect(http.StatusFound, PathHome)
}

// Register は POST /register のハンドラーです。
func (m *Manager) Register(c *gin.Context) {
	req, ok := readCredentials(c)
	if !ok {
		c.String(http.StatusBadRequest, MsgMissingFields)
		return
	}

	encoded, err := m.scheme.Encode(req.Password)
	if err != nil {
		m.internalError(c, "password encode failed", err)
		return
	}

	err = m.store.Create(c.Request.Context(), &users.User{
		Username: req.Username,
		Password: encoded,
	})
	if err != nil {
		if errors.Is(err, users.ErrUserExists) {
			c.String(http.StatusConflict, MsgUsernameExists)
			return
		}
		m.internalError(c, "user create failed", err)
		return
	}

	logging.For(c, m.logger).Info("user registered", zap.String("username", req.Username))
	c.Redirect(http.StatusFound, PathLogin)
}

// Logout は GET /logout のハンドラーです。
func (m *Manager) Logout(c *gin.Context) {
	if err := SessionFrom(c).ClearUser(); err != nil {
		m.internalError(c, "session save failed", err)
		return
	}
	c.Redirect(http.StatusFound, PathIndex)
}

func (m *Manager) internalError(c *gin.Context, msg string, err error) {
	logging.For(c, m.logger).Error(msg, zap.Error(err))
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
