// Package logging builds the structured loggers used by pkgstage.
package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/conn-castle/pkgstage/internal/terminal"
)

// Prefix is the default component prefix for pkgstage log lines.
const Prefix = "pkgstage"

// Options controls logger construction.
type Options struct {
	Prefix  string
	Verbose bool
	Quiet   bool
}

// Level maps the verbosity flags to a log level. Quiet wins over verbose.
func Level(verbose, quiet bool) log.Level {
	switch {
	case quiet:
		return log.ErrorLevel
	case verbose:
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}

// New returns a text logger writing to w. Timestamps are reported only when w
// is a terminal so piped output stays stable.
func New(w io.Writer, opts Options) *log.Logger {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = Prefix
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           Level(opts.Verbose, opts.Quiet),
		ReportTimestamp: terminal.IsTerminal(w),
		TimeFormat:      time.TimeOnly,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
