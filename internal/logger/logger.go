// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger builds the structured zap logger shared by every command.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger.
type Options struct {
	Debug  bool      // Enable debug level logging
	Quiet  bool      // Only show errors
	JSON   bool      // Output as JSON
	Output io.Writer // Output destination (default: stderr)
}

// Level returns the minimum level implied by o. Quiet wins over Debug.
func (o Options) Level() zapcore.Level {
	switch {
	case o.Quiet:
		return zapcore.ErrorLevel
	case o.Debug:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// New returns a logger writing to o.Output. Console output is meant for a
// terminal; JSON output carries ISO8601 timestamps for log collectors.
func New(o Options) *zap.Logger {
	out := o.Output
	if out == nil {
		out = os.Stderr
	}

	var enc zapcore.Encoder
	if o.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), o.Level())
	return zap.New(core)
}

// Init builds a logger from o and installs it as the zap global, returning
// a function that restores the previous global.
func Init(o Options) (*zap.Logger, func()) {
	l := New(o)
	return l, zap.ReplaceGlobals(l)
}
