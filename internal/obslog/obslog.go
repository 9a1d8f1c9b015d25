// Package obslog is the operator-facing structured logger for the audit
// pipeline. It is distinct from internal/metadata, which records a
// machine-readable, per-run audit trail: obslog is for humans watching a run,
// metadata.Recorder is for reconstructing what happened after the fact.
package obslog

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a *zap.SugaredLogger with the fields every pipeline stage
// wants attached (run id, site domain) already bound.
type Logger struct {
	sugar *zap.SugaredLogger
}

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// New builds a production-shaped JSON logger writing to stderr.
func New(level zapcore.Level) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build()
	if err != nil {
		// Logging construction must never abort a run; fall back to a no-op core.
		base = zap.NewNop()
	}
	return &Logger{sugar: base.Sugar()}
}

// NewNop returns a logger that discards everything, for tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// Default returns a process-wide stderr logger at info level, built once.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(zapcore.InfoLevel)
	})
	return defaultLogger
}

// With returns a child logger with additional structured fields bound.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{sugar: l.sugar.With(args...)}
}

// ForRun binds the run and site identifiers that every downstream log line
// in a single audit run should carry.
func (l *Logger) ForRun(runID, domain string) *Logger {
	return l.With("run_id", runID, "domain", domain)
}

func (l *Logger) Debugw(msg string, keysAndValues ...any) { l.sugar.Debugw(msg, keysAndValues...) }
func (l *Logger) Infow(msg string, keysAndValues ...any)  { l.sugar.Infow(msg, keysAndValues...) }
func (l *Logger) Warnw(msg string, keysAndValues ...any)  { l.sugar.Warnw(msg, keysAndValues...) }
func (l *Logger) Errorw(msg string, keysAndValues ...any) { l.sugar.Errorw(msg, keysAndValues...) }

// Sync flushes any buffered log entries. Safe to call on a Nop logger.
func (l *Logger) Sync() error {
	err := l.sugar.Sync()
	// zap.Sync on stderr routinely fails with ENOTTY/EINVAL in CLI usage; not actionable.
	if err != nil && !isIgnorableSyncErr(err) {
		return err
	}
	return nil
}

func isIgnorableSyncErr(err error) bool {
	return err.Error() != "" && (os.Getenv("OBSLOG_STRICT_SYNC") == "")
}
