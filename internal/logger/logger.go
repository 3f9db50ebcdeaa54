package logger

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

type Config struct {
	Level   string
	Format  string
	Output  io.Writer
	Service string
}

type Logger struct {
	l *slog.Logger
}

func New(conf Config) *Logger {
	if conf.Output == nil {
		conf.Output = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(conf.Level)}

	var handler slog.Handler
	if strings.EqualFold(conf.Format, FormatJSON) {
		handler = slog.NewJSONHandler(conf.Output, opts)
	} else {
		handler = slog.NewTextHandler(conf.Output, opts)
	}

	if conf.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", conf.Service)})
	}

	return &Logger{l: slog.New(handler)}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return New(Config{Output: io.Discard, Level: "error"})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) LogErrorf(format string, v ...any) {
	l.l.Error(fmt.Sprintf(format, v...))
}

func (l *Logger) LogWarnf(format string, v ...any) {
	l.l.Warn(fmt.Sprintf(format, v...))
}

func (l *Logger) LogInfo(format string, v ...any) {
	l.l.Info(fmt.Sprintf(format, v...))
}

func (l *Logger) LogDebugf(format string, v ...any) {
	l.l.Debug(fmt.Sprintf(format, v...))
}

// StdLogger adapts the logger for http.Server.ErrorLog.
func (l *Logger) StdLogger() *log.Logger {
	return slog.NewLogLogger(l.l.Handler(), slog.LevelError)
}
