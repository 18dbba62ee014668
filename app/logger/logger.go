// Package logger builds the process-wide slog.Logger on top of
// github.com/charmbracelet/log.
package logger

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
)

// New returns an slog.Logger writing to w. Debug records are emitted only
// when debug is set.
func New(w io.Writer, debug bool) *slog.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	return slog.New(log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		ReportCaller:    debug,
	}))
}

// Setup installs the logger as the slog default and returns it.
func Setup(w io.Writer, debug bool) *slog.Logger {
	l := New(w, debug)
	slog.SetDefault(l)
	return l
}
