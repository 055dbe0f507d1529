// File: internal/handler/ping.go
package handler

import (
	"log/slog"
	"net/http"

	"recipe-app/internal/api"
	"recipe-app/internal/cache"
	"recipe-app/internal/database"

	"github.com/labstack/echo/v4"
)

var probeCache = cache.Probe

// PingResponse 健康檢查回應模型
// swagger:model PingResponse
type PingResponse struct {
	// 回應訊息
	Message string `json:"message" example:"pong"`
}

// PingHandler 健康檢查（需通過認證）
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫與 Redis 是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} PingResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     503 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /ping [get]
func PingHandler(db database.DB, c cache.Cache) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		rctx := ctx.Request().Context()
		if err := db.Ping(rctx); err != nil {
			slog.Default().Error("database ping failed", "error", err)
			return ctx.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Message: "database unhealthy"})
		}
		if err := probeCache(rctx, c); err != nil {
			slog.Default().Error("cache probe failed", "error", err)
			return ctx.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Message: "cache unhealthy"})
		}
		return ctx.JSON(http.StatusOK, PingResponse{Message: "pong"})
	}
}
