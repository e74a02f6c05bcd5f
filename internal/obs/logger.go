// Package obs sets up the driver's structured logger. Grounded on
// cmd/nerd/main.go's zap wiring: a production config by default, switched
// to debug level by --verbose, synced at process exit.
package obs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap.Logger for the driver. verbose lowers the level
// to Debug; otherwise Info and above are logged as JSON to stderr.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// Sync flushes buffered log entries, swallowing the common "sync
// /dev/stderr: invalid argument" error terminals report.
func Sync(logger *zap.Logger) {
	_ = logger.Sync()
}
