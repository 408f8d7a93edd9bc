// Package editor runs an interactive edit session over a scoped
// temporary file: write the current content, block on the editor
// process, read the result back. The temp file is removed on every
// exit path.
package editor

import (
	"context"
	"fmt"
	"os"

	pkgexec "github.com/systmms/opsync/pkg/exec"
)

// DefaultCommand is the editor launched when none is configured.
const DefaultCommand = "code"

// Editor launches an external editor over temp-file content.
type Editor struct {
	command string
	runner  pkgexec.InteractiveRunner
}

// New creates an editor around the given command (e.g. "code").
// An empty command falls back to DefaultCommand.
func New(command string) *Editor {
	return NewWithRunner(command, pkgexec.StdioRunner{})
}

// NewWithRunner creates an editor with a custom process runner.
// Primarily used for testing.
func NewWithRunner(command string, runner pkgexec.InteractiveRunner) *Editor {
	if command == "" {
		command = DefaultCommand
	}
	return &Editor{command: command, runner: runner}
}

// Edit writes content to a temporary file, blocks until the editor
// exits, and returns the file's content afterwards. The file is
// deleted regardless of outcome.
func (e *Editor) Edit(ctx context.Context, content string) (string, error) {
	file, err := os.CreateTemp("", "opsync-*.env")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	path := file.Name()
	defer os.Remove(path)

	if _, err := file.WriteString(content); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}
	// Close before the editor opens it so the content is flushed.
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to flush temporary file: %w", err)
	}

	if err := e.runner.Run(ctx, e.command, "--wait", path); err != nil {
		return "", fmt.Errorf("editor '%s' failed: %w", e.command, err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(edited), nil
}
