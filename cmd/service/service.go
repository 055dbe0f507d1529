// @title        Recipe App API
// @version      1.0
// @description  食譜、標籤與食材的 REST API；所有資料皆以登入使用者為範圍
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-app/internal/api"
	"recipe-app/internal/apperr"
	"recipe-app/internal/cache"
	"recipe-app/internal/config"
	"recipe-app/internal/database"
	"recipe-app/internal/logging"
	"recipe-app/internal/metrics"
	"recipe-app/internal/router"
	"recipe-app/internal/service"
	"recipe-app/internal/storage"
	"recipe-app/internal/store"
	"recipe-app/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "recipe-app/docs" // 引入 swag 產出的 docs
)

const (
	dbWaitAttempts  = 30
	dbWaitInterval  = time.Second
	shutdownTimeout = 10 * time.Second
	releaseQueue    = 64
)

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	waitForDB       = database.WaitForDB
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	newWorkerPool   = worker.NewPool
	getUserByEmail  = store.GetUserByEmail
	createUser      = store.CreateUser
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	notifyContext   = signal.NotifyContext
	exitFunc        = os.Exit
)

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, cfg.LogLevel, "recipe-app")
	slog.SetDefault(log)

	ctx, stop := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	log.Info("waiting for database")
	if err := waitForDB(ctx, db, dbWaitAttempts, dbWaitInterval); err != nil {
		return fmt.Errorf("DB 無法使用: %w", err)
	}
	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}
	if err := ensureSuperuser(ctx, db, cfg.SuperuserEmail, cfg.SuperuserPassword); err != nil {
		return fmt.Errorf("建立 superuser 失敗: %w", err)
	}

	rdb, err := newRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer rdb.Close()

	wp := newWorkerPool(cfg.WorkerCount, releaseQueue, log)
	defer wp.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.HTTPErrorHandler
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())

	router.Setup(e, router.Deps{
		DB:        db,
		Cache:     rdb,
		Files:     storage.NewLocal(cfg.MediaRoot, cfg.MediaURL),
		Pool:      wp,
		TokenTTL:  cfg.TokenTTL,
		MediaRoot: cfg.MediaRoot,
		RateLimit: cfg.RateLimit,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- startServer(e, cfg.ListenAddr) }()
	log.Info("server starting", "addr", cfg.ListenAddr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	}
}

// ensureSuperuser 若設定了帳密且該 email 尚未存在則建立 superuser
func ensureSuperuser(ctx context.Context, db database.DB, email, password string) error {
	if email == "" {
		return nil
	}
	_, err := getUserByEmail(ctx, db, service.NormalizeEmail(email))
	if err == nil {
		return nil
	}
	if !apperr.Is(err, apperr.CodeNotFound) {
		return err
	}
	u, err := service.NewSuperuser(email, password)
	if err != nil {
		return err
	}
	if _, err := createUser(ctx, db, u); err != nil {
		return err
	}
	slog.Default().Info("superuser created", "email", u.Email)
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Default().Error("service stopped", "error", err)
		exitFunc(1)
	}
}
