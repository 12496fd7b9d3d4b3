// Package logging provides logger construction for the optimizer components.
//
// All packages log through logr.Logger backed by zap. The global
// controller-runtime logger is set once at process startup (or once per test
// binary via NewTestLogger) so that library code can use ctrl.Log safely.
package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
)

// Verbosity levels used with logr's V().
const (
	DEBUG = 1
	TRACE = 2
)

// NewLogger builds a production logger. When verbose is set, the debug level
// is enabled and output switches to the development encoder.
func NewLogger(verbose bool) logr.Logger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
	}

	z, err := cfg.Build()
	if err != nil {
		// Config above is static; Build only fails on invalid output paths.
		panic(err)
	}
	return zapr.NewLogger(z)
}

// SetLogger installs the given logger as the controller-runtime global logger.
func SetLogger(log logr.Logger) {
	ctrl.SetLogger(log)
}

// NewTestLogger builds a development logger and installs it globally.
// Intended for test suites.
func NewTestLogger() logr.Logger {
	log := zapr.NewLogger(zap.NewNop())
	ctrl.SetLogger(log)
	return log
}
