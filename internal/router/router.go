// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"accounts/internal/cache"
	"accounts/internal/database"
	"accounts/internal/handler"
	"accounts/internal/handler/auth"
	"accounts/internal/handler/users"
	"accounts/internal/middleware"
	"accounts/internal/model"
)

// AccountService 同時滿足 auth 與 users handler 的需求
type AccountService interface {
	auth.AccountService
	users.AccountService
}

// Deps 路由所需的相依物件；Cache 可為 nil
type Deps struct {
	DB                 database.DB
	Cache              cache.Cache
	Accounts           AccountService
	Tokens             middleware.TokenValidator
	RateLimitPerMinute int
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	requireUser := middleware.RequireRole(d.Tokens, model.RoleUser)
	requireAdmin := middleware.RequireRole(d.Tokens, model.RoleAdmin)
	limited := middleware.RateLimit(d.RateLimitPerMinute)

	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(), middleware.OptionalAuth(d.Tokens))
	api.GET("/health", handler.LivenessHandler())
	api.GET("/health/ready", handler.ReadinessHandler(d.DB, d.Cache))
	api.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// 使用者註冊、登入與個人資料
	apiAuth := api.Group("/auth")
	apiAuth.POST("/register", auth.RegisterHandler(d.Accounts), limited)
	apiAuth.POST("/login", auth.LoginHandler(d.Accounts, model.RoleUser), limited)
	apiAuth.GET("/me", auth.MeHandler(d.Accounts), requireUser)
	apiAuth.PUT("", auth.UpdateMeHandler(d.Accounts), requireUser)
	apiAuth.PUT("/password", auth.UpdatePasswordMeHandler(d.Accounts), requireUser)

	// 管理員登入與個人資料
	apiAdminAuth := api.Group("/admin/auth")
	apiAdminAuth.POST("/login", auth.LoginHandler(d.Accounts, model.RoleAdmin), limited)
	apiAdminAuth.GET("/me", auth.MeHandler(d.Accounts), requireAdmin)
	apiAdminAuth.PUT("/password", auth.UpdatePasswordMeHandler(d.Accounts), requireAdmin)

	// 管理員專屬 Users 管理
	apiUsers := api.Group("/admin/users")
	apiUsers.POST("", users.CreateUserHandler(d.Accounts), requireAdmin)
	apiUsers.GET("", users.ListUsersHandler(d.Accounts), requireAdmin)
	apiUsers.GET("/:id", users.GetUserHandler(d.Accounts), requireAdmin)
	apiUsers.PUT("/:id/password", users.UpdateUserPasswordHandler(d.Accounts), requireAdmin)
	apiUsers.PUT("/:id/role", users.UpdateUserRoleHandler(d.Accounts), requireAdmin)
	apiUsers.PUT("/:id/deactivate", users.DeactivateUserHandler(d.Accounts), requireAdmin)
	apiUsers.PUT("/:id/reactivate", users.ReactivateUserHandler(d.Accounts), requireAdmin)

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
