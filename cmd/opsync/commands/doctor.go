package commands

import (
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/systmms/opsync/internal/errors"
	"github.com/systmms/opsync/internal/fly"
	"github.com/systmms/opsync/internal/vault"
)

func NewDoctorCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the required CLI tools are installed and signed in",
		Long: `Verify the external tools opsync depends on.

This command checks:
- 1Password CLI (op) is installed and signed in
- fly CLI is installed
- git is installed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			failed := false

			if err := vault.New(cfg.Logger).Validate(ctx); err != nil {
				cfg.Logger.Error("1Password CLI: %v", err)
				failed = true
			} else {
				cfg.Logger.Info("1Password CLI ready")
			}

			if err := fly.New(cfg.Logger).Validate(ctx); err != nil {
				cfg.Logger.Error("fly CLI: %v", err)
				failed = true
			} else {
				cfg.Logger.Info("fly CLI ready")
			}

			if _, err := exec.LookPath("git"); err != nil {
				cfg.Logger.Error("git not found in PATH")
				failed = true
			} else {
				cfg.Logger.Info("git ready")
			}

			if failed {
				return errors.UserError{
					Message:    "Some required tools are missing or unauthenticated",
					Suggestion: "Fix the checks above and run opsync doctor again",
				}
			}
			return nil
		},
	}
}
