// Package logging provides leveled console logging with redaction
// support for secret material.
package logging

import (
	"fmt"
	"io"
	"os"
)

// Logger writes leveled messages to stderr so result output on stdout
// stays scriptable.
type Logger struct {
	debug   bool
	noColor bool
	out     io.Writer
}

// New creates a new logger instance.
func New(debug, noColor bool) *Logger {
	return NewWithWriter(debug, noColor, os.Stderr)
}

// NewWithWriter creates a logger writing to the given writer instead
// of stderr. Primarily used for testing.
func NewWithWriter(debug, noColor bool, out io.Writer) *Logger {
	return &Logger{debug: debug, noColor: noColor, out: out}
}

func (l *Logger) log(color, marker, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.noColor {
		fmt.Fprintf(l.out, "%s %s\n", marker, msg)
		return
	}
	fmt.Fprintf(l.out, "%s%s\033[0m %s\n", color, marker, msg)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log("\033[32m", "✓", format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log("\033[33m", "⚠", format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log("\033[31m", "✗", format, args...)
}

// Debug logs a debug message if debug mode is enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.log("\033[36m", "[DEBUG]", format, args...)
}

// Secret represents a value that should be redacted in logs.
type Secret string

// String implements the Stringer interface, always returning a redacted value.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements the GoStringer interface for %#v formatting.
func (s Secret) GoString() string {
	return "[REDACTED]"
}
