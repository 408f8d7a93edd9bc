// Package exec provides abstractions for command execution.
// It lets the CLI tools opsync shells out to (op, fly, git) be mocked
// in tests.
package exec

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

// CommandExecutor defines an interface for executing shell commands.
type CommandExecutor interface {
	// Execute runs a command with the given context and arguments.
	// Returns stdout, stderr, and any error that occurred.
	Execute(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// RealCommandExecutor executes actual shell commands using os/exec,
// capturing both output streams. This is the production implementation.
type RealCommandExecutor struct{}

// Execute runs an actual shell command.
func (r *RealCommandExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// DefaultExecutor returns the standard production executor.
// This is used as the default when no executor is injected.
func DefaultExecutor() CommandExecutor {
	return &RealCommandExecutor{}
}

// InteractiveRunner runs a command wired to the caller's terminal.
// Used for launching the interactive editor, which needs the real
// stdin/stdout/stderr rather than captured buffers.
type InteractiveRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// StdioRunner is the production InteractiveRunner. The child process
// inherits the current process's standard streams and blocks until it
// exits.
type StdioRunner struct{}

// Run launches the command attached to the terminal.
func (StdioRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
