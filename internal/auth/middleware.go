package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextUserKey は、ハンドラー間でログイン済みユーザー名を共有するためのキーです。
const ContextUserKey = "auth.user"

// RequireLogin は未ログインのリクエストを /login にリダイレクトするミドルウェアを返します。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := SessionFrom(c).User()
		if !ok {
			c.Redirect(http.StatusFound, PathLogin)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser は RequireLogin が設定したユーザー名を返します。
func CurrentUser(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return "", false
	}
	user, ok := v.(string)
	return user, ok
}

// RequireLoginAPI は API 向けのガードで、未ログインなら 401 の JSON を返します。
func (m *Manager) RequireLoginAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := SessionFrom(c).User()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "login required",
			})
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}
