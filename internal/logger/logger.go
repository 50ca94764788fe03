// Package logger builds the charmbracelet loggers used across subsystems.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a logger with the given subsystem prefix. Output goes to
// stderr so the stdio transport on stdout stays clean.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// SetVerbose raises the global level to debug when enabled.
func SetVerbose(verbose bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}
