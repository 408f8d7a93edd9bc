// Package gitrepo derives a stable repository identity from the
// current directory's git remote configuration. The identity
// ("owner/name") is used as a lookup key against vault item titles.
package gitrepo

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	pkgexec "github.com/systmms/opsync/pkg/exec"
)

// remotePattern matches both https and ssh style remote URLs:
// https://github.com/acme/widget.git and git@github.com:acme/widget.git.
// Group 4 is the owner, group 5 the repository name.
var remotePattern = regexp.MustCompile(`^(https|git)(://|@)([^/:]+)[/:]([^/:]+)/(.+)\.git$`)

// NoOriginError indicates that the remote named "origin" could not be
// read: either not inside a git repository or no such remote exists.
type NoOriginError struct {
	Err error
}

func (e NoOriginError) Error() string {
	return `either not in a git repository or remote "origin" is not set`
}

func (e NoOriginError) Unwrap() error {
	return e.Err
}

// RemoteParseError indicates that the origin URL did not match any
// recognized remote URL shape.
type RemoteParseError struct {
	URL string
}

func (e RemoteParseError) Error() string {
	return fmt.Sprintf(`could not parse remote "origin" url %q`, e.URL)
}

// Resolver reads repository identity through the git CLI.
type Resolver struct {
	executor pkgexec.CommandExecutor
}

// New creates a resolver using the real git CLI.
func New() *Resolver {
	return NewWithExecutor(pkgexec.DefaultExecutor())
}

// NewWithExecutor creates a resolver with a custom executor.
// Primarily used for testing.
func NewWithExecutor(executor pkgexec.CommandExecutor) *Resolver {
	return &Resolver{executor: executor}
}

// CurrentRepository returns "owner/name" for the current directory's
// origin remote.
func (r *Resolver) CurrentRepository(ctx context.Context) (string, error) {
	stdout, _, err := r.executor.Execute(ctx, "git", "config", "--get", "remote.origin.url")
	if err != nil {
		return "", NoOriginError{Err: err}
	}

	url := strings.TrimSpace(string(stdout))
	match := remotePattern.FindStringSubmatch(url)
	if match == nil {
		return "", RemoteParseError{URL: url}
	}

	return match[4] + "/" + match[5], nil
}
