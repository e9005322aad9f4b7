package internal

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     = zap.NewNop()
	loggerOnce sync.Once
)

// InitLogging sets up the file logger in the cache directory. When logging is
// disabled, or the log file cannot be opened, the no-op logger stays in place.
func InitLogging(config *Config) {
	loggerOnce.Do(func() {
		if !config.LogEnabled {
			return
		}

		if err := os.MkdirAll(config.CacheDir, 0755); err != nil {
			return
		}

		zc := zap.NewProductionConfig()
		zc.OutputPaths = []string{filepath.Join(config.CacheDir, "ytscrape.log")}
		zc.ErrorOutputPaths = []string{filepath.Join(config.CacheDir, "ytscrape.log")}
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if config.Verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		l, err := zc.Build()
		if err != nil {
			return
		}
		logger = l
	})
}

// Logger returns the process wide logger
func Logger() *zap.Logger {
	return logger
}

// SyncLogging flushes buffered log entries
func SyncLogging() {
	_ = logger.Sync()
}
