package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"aerogrow/config"

	"github.com/natefinch/lumberjack"
)

var (
	loggerInstance *slog.Logger
	loggerErr      error
	loggerOnce     sync.Once
)

// Init builds the process logger once and installs it as the slog default.
func Init(settings *config.LoggerSettings) error {
	loggerOnce.Do(func() {
		loggerInstance, loggerErr = New(settings)
		if loggerErr == nil {
			slog.SetDefault(loggerInstance)
		}
	})
	return loggerErr
}

// Get returns the process logger, or slog.Default() before Init.
func Get() *slog.Logger {
	if loggerInstance == nil {
		return slog.Default()
	}
	return loggerInstance
}

// New creates a logger for the given settings: text on stdout for
// console, JSON through a rotating writer for file.
func New(settings *config.LoggerSettings) (*slog.Logger, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(settings.LogLevel),
	}

	switch settings.LogType {
	case config.LogTypeConsole:
		return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
	case config.LogTypeFile:
		return slog.New(slog.NewJSONHandler(newFileWriter(settings), opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log type: %s", settings.LogType)
	}
}

func newFileWriter(settings *config.LoggerSettings) io.Writer {
	return &lumberjack.Logger{
		Filename:   settings.FilePath,
		MaxSize:    settings.MaxSize,
		MaxBackups: settings.MaxBackups,
		MaxAge:     settings.MaxAge,
		Compress:   true,
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelInfo:
		return slog.LevelInfo
	case config.LogLevelWarning:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
