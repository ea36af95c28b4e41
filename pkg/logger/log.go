package logger

import "log/slog"

// Package-level helpers so callers can write logger.Info("event", "k", v)
// without touching the Log variable. They are safe before Init; slog's
// default logger is used until Init installs the configured one.

func get() *slog.Logger {
	if Log != nil {
		return Log
	}
	return slog.Default()
}

func Debug(msg string, args ...any) { get().Debug(msg, args...) }
func Info(msg string, args ...any)  { get().Info(msg, args...) }
func Warn(msg string, args ...any)  { get().Warn(msg, args...) }
func Error(msg string, args ...any) { get().Error(msg, args...) }
