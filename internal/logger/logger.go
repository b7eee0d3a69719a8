package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log is the global structured logger
	Log *slog.Logger
	// LogPath is the path to the current log file, empty when logging to stderr
	LogPath string
	// logWriter is the rotating log writer
	logWriter *lumberjack.Logger
)

// ParseLevel maps a level name from settings to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
	}
}

// InitLogger initializes the global logger.
// With a logPath, JSON records go to a rotating file; otherwise text records go to stderr.
func InitLogger(level slog.Level, logPath string) error {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	Close()
	LogPath = ""

	var handler slog.Handler
	if logPath == "" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		LogPath = logPath
		logWriter = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   true,
		}
		handler = slog.NewJSONHandler(logWriter, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
	return nil
}

// InitWriter points the global logger at w. Used by tests to capture output.
func InitWriter(w io.Writer, level slog.Level) {
	Close()
	LogPath = ""
	Log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Close closes the log file
func Close() {
	if logWriter != nil {
		logWriter.Close()
		logWriter = nil
	}
}

func getLogger() *slog.Logger {
	if Log != nil {
		return Log
	}
	return slog.Default()
}

func Debug(msg string, args ...any) {
	getLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	getLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	getLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	getLogger().Error(msg, args...)
}
