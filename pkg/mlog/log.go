// Package mlog defines the logging interface carried through the engine via
// context.Context, mirroring the teacher's common/mlog package so commands
// never depend on a concrete logging backend.
package mlog

import "context"

// Logger is the common interface every backend (zap, a test spy, /dev/null)
// implements.
type Logger interface {
	Info(args ...any)
	Infof(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Debug(args ...any)
	Debugf(format string, args ...any)

	// WithFields returns a derived logger that always includes the given
	// key/value pairs.
	WithFields(fields ...any) Logger

	Sync() error
}

// NoneLogger discards everything. It is the fallback returned by
// FromContext when no logger has been attached, so commands never need a
// nil check before logging.
type NoneLogger struct{}

func (NoneLogger) Info(_ ...any)            {}
func (NoneLogger) Infof(_ string, _ ...any) {}
func (NoneLogger) Error(_ ...any)            {}
func (NoneLogger) Errorf(_ string, _ ...any) {}
func (NoneLogger) Warn(_ ...any)             {}
func (NoneLogger) Warnf(_ string, _ ...any)  {}
func (NoneLogger) Debug(_ ...any)            {}
func (NoneLogger) Debugf(_ string, _ ...any) {}

//nolint:ireturn
func (n NoneLogger) WithFields(_ ...any) Logger { return n }
func (NoneLogger) Sync() error                  { return nil }

type contextKey string

const loggerKey contextKey = "mlog.logger"

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the Logger attached to ctx, or NoneLogger if none was
// attached.
//
//nolint:ireturn
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}

	return NoneLogger{}
}
