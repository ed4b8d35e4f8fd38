// Package router assembles the gin engine: middleware, templates, assets and routes.
package router

import (
	"fmt"
	"io/fs"
	"net/http"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/handlers"
	"yatube/internal/middleware"
	"yatube/internal/services"
	"yatube/internal/storage"
	"yatube/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	PageCache cache.PageCache
	Images    storage.ImageStore
}

// New wires services and handlers into a ready to serve engine.
func New(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config
	images := deps.Images
	if images == nil {
		images = storage.NewLocal(cfg.MediaRoot)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.SessionName, store))

	renderer, err := loadTemplates(web.FS)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	r.HTMLRender = renderer

	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))
	r.Static("/media", cfg.MediaRoot)

	posts := services.NewPostService(deps.DB)
	groups := services.NewGroupService(deps.DB)
	users := services.NewUserService(deps.DB)
	comments := services.NewCommentService(deps.DB)
	follows := services.NewFollowService(deps.DB)
	likes := services.NewLikeService(deps.DB)

	r.Use(middleware.LoadUser(users))

	registerRoutes(r, routeHandlers{
		posts:    handlers.NewPostHandler(posts, groups, users, comments, follows, likes, images),
		comments: handlers.NewCommentHandler(posts, comments),
		follows:  handlers.NewFollowHandler(users, follows),
		likes:    handlers.NewLikeHandler(posts, likes),
		auth:     handlers.NewAuthHandler(users),
	}, deps.PageCache)

	r.NoRoute(handlers.NotFound)
	return r, nil
}

type routeHandlers struct {
	posts    *handlers.PostHandler
	comments *handlers.CommentHandler
	follows  *handlers.FollowHandler
	likes    *handlers.LikeHandler
	auth     *handlers.AuthHandler
}

func registerRoutes(r *gin.Engine, h routeHandlers, pageCache cache.PageCache) {
	// Public
	r.GET("/", middleware.CachePage(pageCache), h.posts.Index)
	r.GET("/group/:slug/", h.posts.GroupPosts)
	r.GET("/profile/:username/", h.posts.Profile)
	r.GET("/posts/:id/", h.posts.PostDetail)

	// Accounts
	r.GET("/auth/signup/", h.auth.ShowSignup)
	r.POST("/auth/signup/", h.auth.Signup)
	r.GET("/auth/login/", h.auth.ShowLogin)
	r.POST("/auth/login/", h.auth.Login)
	r.GET("/auth/logout/", h.auth.Logout)
	r.POST("/auth/logout/", h.auth.Logout)

	// Login required
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create/", h.posts.ShowCreate)
		authorized.POST("/create/", h.posts.Create)
		authorized.GET("/posts/:id/edit/", h.posts.ShowEdit)
		authorized.POST("/posts/:id/edit/", h.posts.Edit)
		authorized.POST("/posts/:id/comment/", h.comments.Add)
		authorized.GET("/posts/:id/like/", h.likes.Toggle)
		authorized.POST("/posts/:id/like/", h.likes.Toggle)
		authorized.GET("/follow/", h.posts.FollowIndex)
		authorized.GET("/profile/:username/follow/", h.follows.Follow)
		authorized.POST("/profile/:username/follow/", h.follows.Follow)
		authorized.GET("/profile/:username/unfollow/", h.follows.Unfollow)
		authorized.POST("/profile/:username/unfollow/", h.follows.Unfollow)
	}
}
