// Package logging constructs the gateway's shared *zap.Logger,
// matching the structured-logging-per-component shape the corpus uses
// for concurrent device/session code (one *zap.Logger field per
// component, tagged with fields for the device/session it owns).
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-style console logger. debug lowers the
// level to Debug; otherwise Info.
func New(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// ForCamera returns a child logger tagged with the camera index, used
// by the Supervisor when it spawns each camera's Actor/Listener/Fan-Out.
func ForCamera(base *zap.Logger, ncam int) *zap.Logger {
	return base.With(zap.Int("ncam", ncam))
}
