// Package commands defines the opsync CLI subcommands.
package commands

import (
	"github.com/systmms/opsync/internal/editor"
	"github.com/systmms/opsync/internal/fly"
	"github.com/systmms/opsync/internal/gitrepo"
	"github.com/systmms/opsync/internal/logging"
	"github.com/systmms/opsync/internal/syncer"
	"github.com/systmms/opsync/internal/vault"
)

// Config holds the per-invocation settings shared by all commands.
// It is populated by the root command's persistent flags before any
// subcommand runs.
type Config struct {
	Logger         *logging.Logger
	NonInteractive bool
}

// newSyncer wires the production components into a workflow syncer.
func newSyncer(cfg *Config, editorCmd string) *syncer.Syncer {
	return syncer.New(syncer.Options{
		Vault:          vault.New(cfg.Logger),
		Fly:            fly.New(cfg.Logger),
		Repo:           gitrepo.New(),
		Editor:         editor.New(editorCmd),
		Logger:         cfg.Logger,
		NonInteractive: cfg.NonInteractive,
	})
}
