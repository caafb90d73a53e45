// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"starter-auth/internal/cache"
	"starter-auth/internal/database"
	"starter-auth/internal/handler"
	"starter-auth/internal/handler/auth"
	"starter-auth/internal/handler/users"
	"starter-auth/internal/middleware"
	"starter-auth/internal/store"
)

type Deps struct {
	DB    database.DB
	Cache cache.Cache
	Auth  auth.Service
	Users store.Users
	Log   *zap.Logger

	Cookies         auth.Cookies
	SuccessRedirect string
}

// Setup 註冊所有路由與中介層；Log 為 nil 時不輸出 handler 日誌
func Setup(e *echo.Echo, d Deps) {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(d.DB, d.Cache))

	// 密碼登入與 session
	apiAuth := api.Group("/auth")
	apiAuth.POST("/signup", auth.SignupHandler(d.Auth, d.Cookies, d.Log))
	apiAuth.POST("/login", auth.LoginHandler(d.Auth, d.Cookies, d.Log))
	apiAuth.POST("/logout", auth.LogoutHandler(d.Auth, d.Cookies, d.Log))
	apiAuth.GET("/me", auth.MeHandler(d.Auth, d.Log))

	// Sign in with Apple
	apiAuth.GET("/apple", auth.AppleStartHandler(d.Auth, d.Cookies, d.Log))
	apiAuth.POST("/apple/callback", auth.AppleCallbackHandler(d.Auth, d.Cookies, d.SuccessRedirect, d.Log))

	// 管理員專屬
	apiUsers := api.Group("/users", middleware.RequireSession(d.Auth), middleware.RequireAdmin)
	apiUsers.GET("/:id", users.GetUserHandler(d.Users, d.Log.Named("users")))

	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
