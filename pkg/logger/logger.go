// Package logger — глобальный логгер процесса с уровнями, поверх log/slog.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Options задаёт параметры глобального логгера.
type Options struct {
	Level    string // debug, info, warn, error
	Format   string // text, json
	Output   string // console, file
	FilePath string
}

var (
	mu      sync.RWMutex
	level   = new(slog.LevelVar)
	current = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
)

// Init пересоздаёт глобальный логгер по опциям.
func Init(opts Options) error {
	if err := SetLevel(opts.Level); err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if strings.EqualFold(opts.Output, "file") {
		if opts.FilePath == "" {
			return fmt.Errorf("log file path is empty")
		}
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = f
	}

	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		h = slog.NewTextHandler(out, hopts)
	case "json":
		h = slog.NewJSONHandler(out, hopts)
	default:
		return fmt.Errorf("unknown log format %q", opts.Format)
	}

	mu.Lock()
	current = slog.New(h)
	mu.Unlock()
	return nil
}

// SetLevel меняет минимальный уровень; пустая строка — info.
func SetLevel(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "", "info":
		level.Set(slog.LevelInfo)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level %q", name)
	}
	return nil
}

// L отдаёт текущий *slog.Logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Debug пишет отладочное сообщение с парами ключ-значение.
func Debug(msg string, args ...any) { L().Debug(msg, args...) }

// Info пишет информационное сообщение.
func Info(msg string, args ...any) { L().Info(msg, args...) }

// Warn пишет предупреждение.
func Warn(msg string, args ...any) { L().Warn(msg, args...) }

// Error пишет ошибку.
func Error(msg string, args ...any) { L().Error(msg, args...) }
