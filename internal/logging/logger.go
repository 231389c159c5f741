// Package logging provides mdtree's structured logger, a thin wrapper
// around charmbracelet/log writing to stderr.
package logging

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	defaultLogger *log.Logger
	once          sync.Once
)

// New creates a logger at info level, or debug level when debug is set.
// Timestamps are omitted; the CLI's output is read at a prompt, not
// aggregated.
func New(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// Default returns the process-wide logger.
func Default() *log.Logger {
	once.Do(func() {
		defaultLogger = New(false)
	})
	return defaultLogger
}

// SetDebug switches the default logger's verbosity.
func SetDebug(debug bool) {
	if debug {
		Default().SetLevel(log.DebugLevel)
	} else {
		Default().SetLevel(log.InfoLevel)
	}
}
