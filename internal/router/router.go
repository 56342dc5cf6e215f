package router

import (
	"secret-share/internal/auth"
	"secret-share/internal/config"
	"secret-share/internal/handler"
	"secret-share/internal/middleware"
	"secret-share/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures Gin engine, templates and static resources.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// static files and templates
	r.Static("/static", "./web/static")
	r.LoadHTMLGlob("web/templates/*")

	users := store.NewUserStore(db)
	sessions := store.NewSessionStore(db)

	verifier := auth.NewVerifier(users, cfg.Security.BcryptCost)
	codec := auth.NewCodec(cfg.Session.JWTSecret, cfg.Session.ExpireHours, sessions, users)

	cookieName := cfg.Session.CookieName
	if cookieName == "" {
		cookieName = "ss_token"
	}

	// 所有路由先尝试还原会话；失败按匿名继续
	r.Use(middleware.CurrentUser(codec, cookieName))
	if cfg.Audit.Enabled {
		r.Use(middleware.AuditMiddleware(db))
	}

	authHandler := handler.NewAuthHandler(verifier, codec, cookieName, cfg.Session.ExpireHours)
	secretHandler := handler.NewSecretHandler(users)

	googleHandler := handler.NewOAuthHandler(
		auth.NewGoogleClient(cfg.OAuth.Google), users, codec, cookieName, cfg.Session.ExpireHours)
	facebookHandler := handler.NewOAuthHandler(
		auth.NewFacebookClient(cfg.OAuth.Facebook), users, codec, cookieName, cfg.Session.ExpireHours)

	// pages
	r.GET("/", handler.Home)
	r.GET("/login", handler.LoginPage)
	r.GET("/register", handler.RegisterPage)
	r.GET("/secrets", secretHandler.List)

	// local auth
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// oauth（回调路径沿用 /auth/<provider>/secrets）
	r.GET("/auth/google", googleHandler.Start)
	r.GET("/auth/google/secrets", googleHandler.Callback)
	r.GET("/auth/facebook", facebookHandler.Start)
	r.GET("/auth/facebook/secrets", facebookHandler.Callback)

	// protected
	protected := r.Group("", middleware.RequireLogin())
	protected.GET("/submit", handler.SubmitPage)
	protected.POST("/submit", secretHandler.Submit)

	return r
}
