package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	SessionCookieName = "pixmon_session"
	sessionKeyUser    = "user"
)

// SessionOptions はセッションクッキーの設定です。
type SessionOptions struct {
	Secret string
	MaxAge int
	Secure bool
}

// NewCookieStore は署名付きクッキーのセッションストアを作成します。
func NewCookieStore(opts SessionOptions) sessions.Store {
	store := cookie.NewStore([]byte(opts.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// Sessions はセッションを gin.Context に載せるミドルウェアを返します。
func Sessions(store sessions.Store) gin.HandlerFunc {
	return sessions.Sessions(SessionCookieName, store)
}

// Session はクライアントごとのセッションで、ログイン中のユーザー名だけを扱います。
type Session struct {
	s sessions.Session
}

// SessionFrom はリクエストに紐づくセッションを返します。
func SessionFrom(c *gin.Context) *Session {
	return &Session{s: sessions.Default(c)}
}

// User はログイン中のユーザー名を返します。
func (s *Session) User() (string, bool) {
	user, ok := s.s.Get(sessionKeyUser).(string)
	if !ok {
		return "", false
	}
	return user, true
}

// SetUser はユーザー名を保存してクッキーに書き出します。
func (s *Session) SetUser(username string) error {
	s.s.Set(sessionKeyUser, username)
	return s.s.Save()
}

// ClearUser はユーザー名を削除します。未ログインでもエラーにはなりません。
func (s *Session) ClearUser() error {
	s.s.Delete(sessionKeyUser)
	return s.s.Save()
}
