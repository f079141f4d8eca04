// Package log wraps a process-wide zap logger writing to a rotating file and,
// optionally, the console.
package log

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the shared logger. It discards everything until Init is called.
var Logger = zap.NewNop()

// Options configures Init.
type Options struct {
	Level string
	File  string
	// Console mirrors records to stderr. Leave it off while a full-screen TUI runs.
	Console bool
	// MaxSizeMB, MaxBackups and MaxAgeDays tune rotation; zero means the defaults.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

// Init replaces Logger. The returned function flushes buffered records.
func Init(opts Options) func() {
	Logger = New(opts)
	return func() {
		if err := Logger.Sync(); err != nil {
			// Syncing stderr fails on some terminals.
			_ = err
		}
	}
}

// New builds a logger from opts without installing it.
func New(opts Options) *zap.Logger {
	encodeConfig := zap.NewProductionEncoderConfig()
	encodeConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	level := ParseLevel(opts.Level)

	var cores []zapcore.Core
	if opts.File != "" {
		rotationLog := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 10), // megabytes
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 28), // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encodeConfig), zapcore.AddSync(rotationLog), level))
	}
	if opts.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encodeConfig), zapcore.AddSync(os.Stderr), level))
	}
	if len(cores) == 0 {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
}

// ParseLevel maps a config string to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
