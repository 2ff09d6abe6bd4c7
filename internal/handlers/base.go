package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"yatube/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	// obj 可能来自缓存，复制一份再注入
	data := make(gin.H, len(obj)+2)
	for k, v := range obj {
		data[k] = v
	}

	if user := middleware.CurrentUser(c); user != nil {
		data["CurrentUser"] = user
	}
	data["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, data)
}

// NotFound 渲染 404 页面
func NotFound(c *gin.Context) {
	Render(c, http.StatusNotFound, "core/404.html", gin.H{"Path": c.Request.URL.Path})
}

// ServerError 渲染 500 页面
func ServerError(c *gin.Context) {
	Render(c, http.StatusInternalServerError, "core/500.html", nil)
}

// RenderError maps a lookup miss to 404 and anything else to a logged 500.
func RenderError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c)
		return
	}
	log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	ServerError(c)
}

// safeNext 只允许站内相对路径，防止开放重定向
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
