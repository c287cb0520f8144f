package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pixmon/pixmon-web/internal/auth"
	"github.com/pixmon/pixmon-web/internal/config"
	"github.com/pixmon/pixmon-web/internal/logging"
	"github.com/pixmon/pixmon-web/internal/storage"
	"github.com/pixmon/pixmon-web/internal/users"
	"github.com/pixmon/pixmon-web/internal/web"
)

// newRouter はミドルウェアとルーティングを設定した gin.Engine を返します。
func newRouter(cfg *config.Config, backend *storage.Backend, scheme users.PasswordScheme, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		logging.RequestID(),
		logging.AccessLog(logger),
		logging.Recovery(logger),
	)

	web.Install(router)

	// セッションストアの設定（クッキー署名鍵は必須）
	store := auth.NewCookieStore(auth.SessionOptions{
		Secret: cfg.SessionSecret,
		MaxAge: cfg.SessionMaxAgeSeconds,
		Secure: cfg.GinMode == gin.ReleaseMode,
	})
	router.Use(auth.Sessions(store))

	// 許可オリジンが空のときは cors.New が panic するので登録しない
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
		router.Use(cors.New(corsConfig))
	}

	setupRoutes(router, backend, auth.NewManager(backend.Store, scheme, logger))
	return router
}

// setupRoutes は画面と認証周りの配線を行います。
func setupRoutes(router *gin.Engine, backend *storage.Backend, authManager *auth.Manager) {
	router.GET("/health", handleHealth(backend))

	router.GET("/", web.Index)

	router.GET("/login", web.Page(web.TemplateLogin))
	router.POST("/login", authManager.Login)

	router.GET("/register", web.Page(web.TemplateRegister))
	router.POST("/register", authManager.Register)

	router.GET("/home", authManager.RequireLogin(), web.Home)
	router.GET("/logout", authManager.Logout)

	api := router.Group("/api")
	{
		api.GET("/auth/me", authManager.RequireLoginAPI(), authManager.Me)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(backend *storage.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := backend.Ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"service": "pixmon-web",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "pixmon-web",
		})
	}
}
