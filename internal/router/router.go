// File: internal/router/router.go
package router

import (
	"net/http"
	"time"

	"recipe-app/internal/cache"
	"recipe-app/internal/database"
	"recipe-app/internal/handler"
	"recipe-app/internal/handler/labels"
	"recipe-app/internal/handler/recipes"
	"recipe-app/internal/handler/users"
	"recipe-app/internal/metrics"
	"recipe-app/internal/middleware"
	"recipe-app/internal/storage"
	"recipe-app/internal/store"
	"recipe-app/internal/worker"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"
)

// Deps 路由所需的外部資源
type Deps struct {
	DB        database.DB
	Cache     cache.Cache
	Files     storage.FileStore
	Pool      worker.Pool
	TokenTTL  time.Duration
	MediaRoot string
	// RateLimit 每個 IP 每秒請求數，0 表示不限制
	RateLimit float64
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if d.MediaRoot != "" {
		e.Static("/media", d.MediaRoot)
	}

	auth := middleware.RequireActiveUser(d.DB)

	apiGroup := e.Group("/api")
	if d.RateLimit > 0 {
		apiGroup.Use(rateLimiter(d.RateLimit))
	}

	// 健康檢查（需登入）
	apiGroup.GET("/ping", handler.PingHandler(d.DB, d.Cache), auth)

	// 註冊與取得 token 不需登入
	apiGroup.POST("/users", users.CreateUserHandler(d.DB))
	apiGroup.POST("/users/token", users.TokenHandler(d.DB, d.TokenTTL))

	me := apiGroup.Group("/users/me", auth)
	me.GET("", users.GetMeHandler(d.DB))
	me.PATCH("", users.UpdateMeHandler(d.DB))

	for _, lt := range []store.LabelTable{store.Tags, store.Ingredients} {
		g := apiGroup.Group("/"+lt.Name, auth)
		g.GET("", labels.ListHandler(d.DB, lt))
		g.POST("", labels.CreateHandler(d.DB, lt))
		g.GET("/:id", labels.GetHandler(d.DB, lt))
		g.PUT("/:id", labels.UpdateHandler(d.DB, lt, true))
		g.PATCH("/:id", labels.UpdateHandler(d.DB, lt, false))
		g.DELETE("/:id", labels.DeleteHandler(d.DB, lt))
	}

	r := apiGroup.Group("/recipes", auth)
	r.GET("", recipes.ListHandler(d.DB))
	r.POST("", recipes.CreateHandler(d.DB))
	r.GET("/:id", recipes.GetHandler(d.DB, d.Files))
	r.PUT("/:id", recipes.UpdateHandler(d.DB, true))
	r.PATCH("/:id", recipes.UpdateHandler(d.DB, false))
	r.DELETE("/:id", recipes.DeleteHandler(d.DB, d.Files, d.Pool))
	r.POST("/:id/image", recipes.UploadImageHandler(d.DB, d.Files, d.Pool))
}

func rateLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			metrics.RateLimitRejects.Inc()
			c.Response().Header().Set("Retry-After", "1")
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}
