package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pixmon/pixmon-web/internal/users"
)

type meResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Me は GET /api/auth/me のハンドラーです。RequireLoginAPI の後ろに置きます。
// パスワードは返しません。
func (m *Manager) Me(c *gin.Context) {
	username, ok := CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code":    "UNAUTHORIZED",
			"message": "login required",
		})
		return
	}

	user, err := m.store.FindByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "user no longer exists",
			})
			return
		}
		m.internalError(c, "user lookup failed", err)
		return
	}

	c.JSON(http.StatusOK, meResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}
