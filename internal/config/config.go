// Package config 從環境變數（可選 .env）讀取服務設定
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 服務啟動所需的設定
type Config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	TokenTTL      time.Duration
	ListenAddr    string
	MediaRoot     string
	MediaURL      string
	WorkerCount   int
	RateLimit     float64
	LogLevel      string

	SuperuserEmail    string
	SuperuserPassword string
}

var (
	getenv     = os.Getenv
	loadDotenv = func() error { return godotenv.Load() }
)

// Load 讀取 .env（不存在時略過）後解析環境變數
func Load() (Config, error) {
	_ = loadDotenv()

	cfg := Config{
		DatabaseURL:       getenv("DATABASE_URL"),
		RedisAddr:         getenv("REDIS_ADDR"),
		RedisPassword:     getenv("REDIS_PASSWORD"),
		JWTSecret:         getenv("JWT_SECRET"),
		ListenAddr:        orDefault(getenv("LISTEN_ADDR"), ":8080"),
		MediaRoot:         orDefault(getenv("MEDIA_ROOT"), "./media"),
		MediaURL:          orDefault(getenv("MEDIA_URL"), "/media/"),
		LogLevel:          orDefault(getenv("LOG_LEVEL"), "info"),
		SuperuserEmail:    getenv("SUPERUSER_EMAIL"),
		SuperuserPassword: getenv("SUPERUSER_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("環境變數 DATABASE_URL 未設定")
	}
	if cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("環境變數 REDIS_ADDR 未設定")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("環境變數 JWT_SECRET 未設定")
	}

	var err error
	if cfg.RedisDB, err = intVar("REDIS_DB", 0, 0); err != nil {
		return Config{}, err
	}
	if cfg.WorkerCount, err = intVar("WORKER_COUNT", 1, 1); err != nil {
		return Config{}, err
	}

	cfg.TokenTTL = 24 * time.Hour
	if v := getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("無效的 TOKEN_TTL: %q", v)
		}
		cfg.TokenTTL = d
	}

	if v := getenv("RATE_LIMIT"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 {
			return Config{}, fmt.Errorf("無效的 RATE_LIMIT: %q", v)
		}
		cfg.RateLimit = r
	}

	if (cfg.SuperuserEmail == "") != (cfg.SuperuserPassword == "") {
		return Config{}, fmt.Errorf("SUPERUSER_EMAIL 與 SUPERUSER_PASSWORD 必須同時設定")
	}
	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intVar(name string, def, min int) (int, error) {
	v := getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return 0, fmt.Errorf("無效的 %s: %q", name, v)
	}
	return n, nil
}
