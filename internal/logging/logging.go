// Package logging builds the file-backed debug logger. The TUI owns stdout,
// so logs always go to a file; with debug off everything is a no-op.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing JSON lines to path. Disabled or path-less
// configurations get zap.NewNop, so call sites never nil-check.
func New(path string, debug bool) (*zap.Logger, error) {
	if !debug || path == "" {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(f), zapcore.DebugLevel)
	return zap.New(core), nil
}
