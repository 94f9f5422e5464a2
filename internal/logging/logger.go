// Package logging sets up the engine's zap logger, configured once at
// process start.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-profile zap.Logger: JSON encoding, ISO8601
// timestamps, info level and above. debug=true switches to
// zap's development profile (console encoding, stack traces on warn+).
func New(debug bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// NewNop returns a logger that discards everything, used by tests and by
// library callers that supply their own zap.Logger instead.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
