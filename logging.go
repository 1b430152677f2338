package corpus_reader

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// SetLogger
// Replaces the logger used by readers that were not given one in their
// ReaderOptions. A nil logger discards all records.
func SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	defaultLogger.Store(logger)
}

// Logger returns the package default logger.
func Logger() *slog.Logger {
	return defaultLogger.Load()
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return Logger()
}
