package logging

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a sugared logger at level writing to path, or to stderr when
// path is empty. The TUI always passes a file so log lines never reach the
// terminal it draws on. Call the returned function before exiting.
func New(level, path string) (*zap.SugaredLogger, func(), error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parse log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, errors.Wrap(err, "create log directory")
		}
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
		cfg.Encoding = "console"
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, errors.Wrap(err, "build logger")
	}
	sugar := logger.Sugar()
	return sugar, func() { _ = sugar.Sync() }, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
