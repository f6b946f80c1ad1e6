// zap.go builds the process-wide zap logger used by cmd/modus and
// internal/orchestrate, grounded on cmd/nerd/main.go's PersistentPreRunE
// (zap.NewProductionConfig, with --verbose dropping the level to Debug).
// New and Nop are the whole package; this engine's logging needs are met
// by zap alone.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-configured zap logger. When verbose is true the
// level is lowered to Debug, matching the teacher's --verbose flag.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// Nop returns a logger that discards everything, used wherever a caller
// doesn't pass one explicitly.
func Nop() *zap.Logger {
	return zap.NewNop()
}
