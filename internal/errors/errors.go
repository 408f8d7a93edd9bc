// Package errors defines the user-facing error types shared across
// opsync. Every error is fatal: workflows stop at the first failure
// and main maps any error to exit code 1.
package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with
// helpful context.
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// CommandError represents a wrapped CLI invocation that exited
// non-zero. Stderr from the child process is carried along so the
// user sees the underlying tool's own diagnostics.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("command '%s' failed", e.Command)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n  " + stderr
	}
	return msg
}

func (e CommandError) Unwrap() error {
	return e.Err
}

// WrapCommand builds a CommandError from a failed executor invocation.
func WrapCommand(name string, args []string, stderr []byte, err error) error {
	return CommandError{
		Command: strings.Join(append([]string{name}, args...), " "),
		Stderr:  string(stderr),
		Err:     err,
	}
}
