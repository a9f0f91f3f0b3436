package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"aimmkit/internal/config"
)

type contextKey string

// TraceIDContextKey carries the request trace ID
const TraceIDContextKey contextKey = "trace_id"

var (
	loggerMu   sync.Mutex
	logger     *slog.Logger
	logFile    *os.File
	loggerOnce sync.Once
)

// InitializeLogger builds the process logger from cfg and installs it as
// the slog default. Later calls return the first logger unchanged.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var err error
	loggerOnce.Do(func() {
		var (
			w io.Writer
			f *os.File
		)
		w, f, err = logOutput(cfg)
		if err != nil {
			return
		}

		l := slog.New(newTraceHandler(w, &slog.HandlerOptions{
			AddSource: cfg.AddSource,
			Level:     parseLogLevel(cfg.Level),
		}))

		loggerMu.Lock()
		logger, logFile = l, f
		loggerMu.Unlock()
		slog.SetDefault(l)
	})

	loggerMu.Lock()
	defer loggerMu.Unlock()
	return logger, err
}

// GetLogger returns the process logger, or the slog default before
// InitializeLogger has run
func GetLogger() *slog.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// NewLogger builds a JSON logger writing to w without touching global state.
// Commands use it so that stdout stays reserved for results.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(newTraceHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
}

// logOutput resolves the configured destination. The returned file is
// non-nil when a log file was opened.
func logOutput(cfg config.LoggingConfig) (io.Writer, *os.File, error) {
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		return os.Stdout, nil, nil
	case "file", "both":
		f, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		if strings.EqualFold(cfg.Output, "both") {
			return io.MultiWriter(os.Stderr, f), f, nil
		}
		return f, f, nil
	default:
		return os.Stderr, nil, nil
	}
}

func openLogFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// traceHandler adds the request trace ID and, when a recording span is
// active, the OpenTelemetry span ID to every record
type traceHandler struct {
	slog.Handler
}

func newTraceHandler(w io.Writer, opts *slog.HandlerOptions) *traceHandler {
	return &traceHandler{Handler: slog.NewJSONHandler(w, opts)}
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := GetTraceID(ctx); id != "" {
		r.AddAttrs(slog.String("trace_id", id))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(slog.String("span_id", sc.SpanID().String()))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// WithTraceID stores a trace ID in ctx
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, traceID)
}

// GetTraceID returns the trace ID stored in ctx, or ""
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(TraceIDContextKey).(string)
	return id
}

// CloseLogFile closes the log file opened by InitializeLogger, if any
func CloseLogFile() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// ResetLoggerForTesting forgets the process logger so tests can initialize
// it again
func ResetLoggerForTesting() {
	_ = CloseLogFile()
	loggerMu.Lock()
	logger = nil
	loggerOnce = sync.Once{}
	loggerMu.Unlock()
}
