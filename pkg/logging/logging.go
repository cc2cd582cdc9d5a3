// Package logging builds the structured loggers used across primfit.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseLevel converts a level name to a log.Level. Unknown names map to
// info.
func ParseLevel(level string) log.Level {
	l, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// New returns a logger writing to w at the given level, without timestamps.
func New(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: false,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, "error")
}
