package mlog

import "go.uber.org/zap"

// ZapLogger adapts *zap.SugaredLogger to the Logger interface, the
// production backend the teacher wires in behind its own mlog abstraction.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a production JSON logger at the given level ("debug",
// "info", "warn", "error"). An unrecognized level falls back to "info".
func NewZapLogger(level string) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()

	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &ZapLogger{sugar: logger.Sugar()}, nil
}

func (z *ZapLogger) Info(args ...any)             { z.sugar.Info(args...) }
func (z *ZapLogger) Infof(format string, a ...any) { z.sugar.Infof(format, a...) }
func (z *ZapLogger) Error(args ...any)              { z.sugar.Error(args...) }
func (z *ZapLogger) Errorf(format string, a ...any) { z.sugar.Errorf(format, a...) }
func (z *ZapLogger) Warn(args ...any)                { z.sugar.Warn(args...) }
func (z *ZapLogger) Warnf(format string, a ...any)   { z.sugar.Warnf(format, a...) }
func (z *ZapLogger) Debug(args ...any)               { z.sugar.Debug(args...) }
func (z *ZapLogger) Debugf(format string, a ...any)  { z.sugar.Debugf(format, a...) }

//nolint:ireturn
func (z *ZapLogger) WithFields(fields ...any) Logger {
	return &ZapLogger{sugar: z.sugar.With(fields...)}
}

func (z *ZapLogger) Sync() error { return z.sugar.Sync() }
