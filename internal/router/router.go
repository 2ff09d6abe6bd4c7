package router

import (
	"io/fs"
	"log"
	"net/http"
	"strings"
	"yatube/internal/config"
	"yatube/internal/handlers"
	"yatube/internal/middleware"
	"yatube/internal/services"
	"yatube/internal/utils"
	"yatube/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "yatube_session"

// New 组装 gin 引擎：会话、模板、静态资源、媒体文件和全部路由
func New(cfg *config.Config, storage services.Storage, cache *utils.GlobalCache) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("[PANIC] %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		handlers.ServerError(c)
		c.Abort()
	}))

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	renderer, err := LoadTemplates(web.Templates, storage)
	if err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	// Static Assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(staticFS))

	// 本地存储时由 gin 直接提供上传的图片
	if local, ok := storage.(*services.LocalStorage); ok {
		r.Static(strings.TrimSuffix(cfg.Media.URL, "/"), local.Root)
	}

	r.Use(middleware.LoadUser())

	RegisterRoutes(r, cfg, storage, cache)

	r.NoRoute(handlers.NotFound)

	return r, nil
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, storage services.Storage, cache *utils.GlobalCache) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler(cfg, storage, cache)
	seoHandler := handlers.NewSEOHandler(cfg.SiteURL)

	// 公共路由 (Public Routes)
	r.GET("/", postHandler.Index)                     // 首页，缓存
	r.GET("/group/:slug/", postHandler.GroupPosts)    // 分组帖子
	r.GET("/profile/:username/", postHandler.Profile) // 用户主页
	r.GET("/posts/:id/", postHandler.PostDetail)      // 帖子详情

	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)
	r.GET("/feed.xml", seoHandler.Feed)

	auth := r.Group("/auth")
	{
		auth.GET("/signup/", authHandler.ShowSignup) // 注册页面
		auth.POST("/signup/", authHandler.Signup)    // 提交注册
		auth.GET("/login/", authHandler.ShowLogin)   // 登录页面
		auth.POST("/login/", authHandler.Login)      // 提交登录
		auth.GET("/logout/", authHandler.Logout)     // 退出登录
	}

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create/", postHandler.ShowCreate)                       // 发布帖子页面
		authorized.POST("/create/", postHandler.Create)                          // 提交发布
		authorized.GET("/posts/:id/edit/", postHandler.Edit)                     // 编辑页面
		authorized.POST("/posts/:id/edit/", postHandler.Edit)                    // 提交编辑
		authorized.POST("/posts/:id/comment/", postHandler.AddComment)           // 发表评论
		authorized.GET("/follow/", postHandler.FollowIndex)                      // 关注的作者
		authorized.POST("/profile/:username/follow/", postHandler.ProfileFollow) // 关注
		authorized.POST("/profile/:username/unfollow/", postHandler.ProfileUnfollow)
	}
}
