// Package applog is a thin wrapper over the standard log package, giving the
// rest of the module a single place to gate debug-level output behind a
// verbosity flag or the TGABUILD_DEBUG environment variable.
package applog

import (
	"io"
	"log"
	"os"
)

// Logger writes leveled messages to an underlying *log.Logger. The zero
// value is not usable; construct with New.
type Logger struct {
	out   *log.Logger
	debug bool
}

// New constructs a Logger writing to w. debug controls whether Debugf
// output is emitted at all.
func New(w io.Writer, debug bool) *Logger {
	return &Logger{out: log.New(w, "", log.LstdFlags), debug: debug}
}

// NewDefault constructs a Logger writing to stderr, with debug enabled if
// TGABUILD_DEBUG is set to a non-empty value.
func NewDefault() *Logger {
	return New(os.Stderr, os.Getenv("TGABUILD_DEBUG") != "")
}

// Infof logs an informational message unconditionally.
func (l *Logger) Infof(format string, args ...any) {
	l.out.Printf("INFO  "+format, args...)
}

// Warnf logs a recoverable problem: a skipped file, a failed best-effort
// backup, anything that does not abort the run.
func (l *Logger) Warnf(format string, args ...any) {
	l.out.Printf("WARN  "+format, args...)
}

// Errorf logs the cause of a failure that is about to abort the run.
func (l *Logger) Errorf(format string, args ...any) {
	l.out.Printf("ERROR "+format, args...)
}

// Debugf logs only when the logger was constructed with debug enabled.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.debug {
		return
	}
	l.out.Printf("DEBUG "+format, args...)
}

// SetDebug toggles debug-level output, used by the CLI's -v flag which is
// parsed after NewDefault has already read the environment.
func (l *Logger) SetDebug(debug bool) {
	l.debug = debug
}
