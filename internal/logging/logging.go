// Package logging 建立服務共用的 JSON 結構化 logger
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel 將 LOG_LEVEL 轉為 slog.Level，未知值回傳 Info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New 回傳寫入 w 的 JSON logger，debug 等級附帶 source
func New(w io.Writer, level, service string) *slog.Logger {
	lvl := ParseLevel(level)
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(h).With("service", service)
}
