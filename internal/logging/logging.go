// Package logging centralizes logger construction and verbosity levels.
//
// The operator logs through logr backed by zap, wired into
// controller-runtime so library and operator logs share one sink. Callers
// pull the logger from the context:
//
//	logger := ctrl.LoggerFrom(ctx)
//	logger.V(logging.DEBUG).Info("sampled metric", "value", v)
package logging

import (
	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Verbosity levels. Level 0 (plain Info) is operational logging; higher
// levels add detail.
const (
	// DEBUG carries per-tick detail: samples, decisions, cooldown state.
	DEBUG = 1
	// TRACE carries wire-level detail: queries, raw backend responses.
	TRACE = 2
)

// NewLogger builds the production logger. Development mode switches to
// console encoding with human-readable timestamps.
func NewLogger(development bool, opts ...zap.Opts) logr.Logger {
	base := []zap.Opts{
		zap.UseDevMode(development),
	}
	if development {
		base = append(base, zap.Level(zapcore.Level(-DEBUG)))
	}
	return zap.New(append(base, opts...)...)
}

// NewTestLogger routes controller-runtime logging to a development logger
// at full verbosity. Suite tests call this once before running specs.
func NewTestLogger() logr.Logger {
	logger := zap.New(zap.UseDevMode(true), zap.Level(zapcore.Level(-TRACE)))
	ctrl.SetLogger(logger)
	return logger
}
