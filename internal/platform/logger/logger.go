package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options defines parameters for logger creation.
type Options struct {
	Env          string
	ConsoleLevel string    // Level for console output (default: warn)
	FileLevel    string    // Level for file output (default: debug)
	File         string    // Rotating JSON log file; empty disables it
	App          string
	Console      io.Writer // Console destination (default: os.Stderr, stdout carries reports)
}

var closers sync.Map

// New creates configured slog.Logger instance.
func New(o Options) *slog.Logger {
	consoleLevel := o.ConsoleLevel
	if consoleLevel == "" {
		consoleLevel = "warn"
	}
	fileLevel := o.FileLevel
	if fileLevel == "" {
		fileLevel = "debug"
	}
	console := o.Console
	if console == nil {
		console = os.Stderr
	}

	handlers := []slog.Handler{newConsoleHandler(console, o.Env, levelFromString(consoleLevel))}

	var closer func() error
	if o.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		closer = fileWriter.Close
		handlers = append(handlers, slog.NewJSONHandler(fileWriter, &slog.HandlerOptions{Level: levelFromString(fileLevel)}))
	}

	var h slog.Handler
	if len(handlers) == 1 {
		h = handlers[0]
	} else {
		h = NewMultiHandler(handlers...)
	}

	l := slog.New(h).With(
		slog.String("app", o.App),
		slog.String("env", o.Env),
	)

	if closer != nil {
		closers.Store(l, closer)
	}

	return l
}

func newConsoleHandler(w io.Writer, env string, level slog.Level) slog.Handler {
	if env == "dev" {
		return tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.Kitchen, NoColor: !isTerminal(w)})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(w),
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	st, err := f.Stat()
	return err == nil && st.Mode()&os.ModeCharDevice != 0
}

// Close closes all file handlers to release resources.
// Should be called when shutting down the application.
func Close(logger *slog.Logger) error {
	if c, ok := closers.Load(logger); ok {
		closers.Delete(logger)
		return c.(func() error)()
	}
	return nil
}

func levelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MultiHandler combines multiple handlers into one.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler creates a handler that writes to multiple handlers.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled implements slog.Handler.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle implements slog.Handler.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: handlers}
}

// WithGroup implements slog.Handler.
func (h *MultiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &MultiHandler{handlers: handlers}
}
