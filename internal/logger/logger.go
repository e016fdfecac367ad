// Package logger provides the process-wide zerolog logger with CLI-friendly
// defaults: console output on stderr, info level.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger.
type Options struct {
	Level      string
	Format     string
	Writer     io.Writer
	WithCaller bool
}

// Logger is the project-wide logging type.
type Logger = zerolog.Logger

var (
	mu   sync.Mutex
	root atomic.Pointer[zerolog.Logger]
)

// FromEnv reads PIXDEX_LOG_LEVEL and PIXDEX_LOG_FORMAT.
func FromEnv() Options {
	return Options{
		Level:  strings.ToLower(envOr("PIXDEX_LOG_LEVEL", "info")),
		Format: strings.ToLower(envOr("PIXDEX_LOG_FORMAT", "console")),
	}
}

// FromConfig returns options from the config file values, with
// PIXDEX_LOG_LEVEL and PIXDEX_LOG_FORMAT taking precedence when set.
func FromConfig(level, format string) Options {
	if level == "" {
		level = "info"
	}
	if format == "" {
		format = "console"
	}
	return Options{
		Level:  strings.ToLower(envOr("PIXDEX_LOG_LEVEL", level)),
		Format: strings.ToLower(envOr("PIXDEX_LOG_FORMAT", format)),
	}
}

// New builds a logger from opt without touching the root logger.
func New(opt Options) Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	log := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp().Logger()
	if opt.WithCaller {
		log = log.With().Caller().Logger()
	}
	return log
}

// Init replaces the root logger. The CLI calls it once per invocation after
// flags are parsed; tests may call it again.
func Init(opt Options) {
	mu.Lock()
	defer mu.Unlock()
	log := New(opt)
	root.Store(&log)
}

// Get returns the root logger, initializing it from the environment on first use.
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	if l := root.Load(); l != nil {
		return l
	}
	log := New(FromEnv())
	root.Store(&log)
	return &log
}

// Named returns a child logger with a component field.
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
