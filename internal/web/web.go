// Package web は HTML テンプレートと画面系のハンドラーを提供します。
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pixmon/pixmon-web/internal/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

// テンプレート名
const (
	TemplateIndex    = "index.html"
	TemplateLogin    = "login.html"
	TemplateRegister = "register.html"
	TemplateHome     = "home.html"
)

// Templates は埋め込みテンプレートをパースして返します。
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// Install はルーターに HTML レンダラーを設定します。
func Install(router *gin.Engine) {
	router.SetHTMLTemplate(Templates())
}

// Page は固定テンプレートを描画するハンドラーを返します。
func Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, name, gin.H{})
	}
}

// Index は GET / のハンドラーです。
func Index(c *gin.Context) {
	c.HTML(http.StatusOK, TemplateIndex, gin.H{})
}

// Home は GET /home のハンドラーです。auth.Manager.RequireLogin の後ろに置きます。
func Home(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, auth.PathLogin)
		return
	}
	c.HTML(http.StatusOK, TemplateHome, gin.H{
		"Username": user,
	})
}
