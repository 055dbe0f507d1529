// Package metrics 定義 Prometheus 指標與 echo 中介層
package metrics

import (
	"strconv"
	"time"

	"recipe-app/internal/api"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipe_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	RateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_rate_limit_rejects_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
	)

	ImagesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_images_stored_total",
			Help: "Total number of recipe images written to the media store",
		},
	)

	FilesReleased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_files_released_total",
			Help: "Image files removed from the media store by result",
		},
		[]string{"result"},
	)
)

// Middleware 記錄每個請求的次數、延遲與進行中數量，path 使用路由樣板
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusOf(c, err))).Inc()
			return err
		}
	}
}

// statusOf 與 api.HTTPErrorHandler 使用相同的錯誤對應
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	status, _ := api.Render(err)
	return status
}

// Handler 輸出 Prometheus 格式的指標
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
