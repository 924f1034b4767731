// Package logger adapts zap to the ports.Logger interface.
package logger

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/doeshing/scrnstr/internal/ports"
)

// ZapLogger routes structured log calls to a zap.Logger.
type ZapLogger struct {
	z *zap.Logger
}

// New builds a logger. Verbose mode switches to the development encoder at
// debug level; otherwise only warnings and errors are emitted as JSON.
func New(verbose bool) *ZapLogger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z}
}

// NewNop returns a logger that discards everything.
func NewNop() *ZapLogger {
	return &ZapLogger{z: zap.NewNop()}
}

// Wrap adapts an existing zap logger, e.g. one built with zaptest.
func Wrap(z *zap.Logger) *ZapLogger {
	return &ZapLogger{z: z}
}

// Named returns a child logger scoped to a component.
func (l *ZapLogger) Named(name string) *ZapLogger {
	return &ZapLogger{z: l.z.Named(name)}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.z.Sync()
}

func (l *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	l.z.Debug(msg, toZap(fields)...)
}

func (l *ZapLogger) Info(msg string, fields map[string]interface{}) {
	l.z.Info(msg, toZap(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	l.z.Warn(msg, toZap(fields)...)
}

func (l *ZapLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.z.Error(msg, append(toZap(fields), zap.Error(err))...)
}

func toZap(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

var _ ports.Logger = (*ZapLogger)(nil)
