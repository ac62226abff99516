package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

//go:generate mockgen -destination ../mocks/mock_logger.go -package pkgmocks github.com/localpulse/localpulse/pkg/logger Logger

// Logger is the logging interface used across the application.
// Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

type zerologLogger struct {
	logger zerolog.Logger
}

// NewLogger creates a zerolog-backed logger writing JSON to stderr.
// Level accepts zerolog level names (debug, info, warn, error); unknown
// values default to info.
func NewLogger(level string) Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zl := zerolog.New(os.Stderr).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return &zerologLogger{logger: zl}
}

// NewConsoleLogger creates a human-readable logger for local development.
func NewConsoleLogger(level string) Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return &zerologLogger{logger: zl}
}

func (l *zerologLogger) Debug(msg string) { l.logger.Debug().Msg(msg) }
func (l *zerologLogger) Info(msg string)  { l.logger.Info().Msg(msg) }
func (l *zerologLogger) Warn(msg string)  { l.logger.Warn().Msg(msg) }
func (l *zerologLogger) Error(msg string) { l.logger.Error().Msg(msg) }
func (l *zerologLogger) Fatal(msg string) { l.logger.Fatal().Msg(msg) }

func (l *zerologLogger) WithField(key string, value interface{}) Logger {
	return &zerologLogger{logger: l.logger.With().Interface(key, value).Logger()}
}

func (l *zerologLogger) WithFields(fields map[string]interface{}) Logger {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &zerologLogger{logger: ctx.Logger()}
}

// NewNopLogger returns a logger that discards everything. Useful in tests.
func NewNopLogger() Logger {
	return &zerologLogger{logger: zerolog.Nop()}
}
