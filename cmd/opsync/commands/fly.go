package commands

import (
	"github.com/spf13/cobra"
)

func NewFlyCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fly",
		Short: "Manage fly application secrets",
	}

	cmd.AddCommand(newFlyImportCommand(cfg), newFlyEditCommand(cfg))
	return cmd
}

func newFlyImportCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "import <app_name>",
		Short: "Replace a fly app's secrets with the 1Password payload",
		Long: `Import secrets from 1Password to a fly application.

The secure note whose title contains "fly:<app_name>" is parsed as an
env file and pushed as the application's complete secret set. Existing
secrets not present in the note are removed.

Examples:
  opsync fly import myapp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newSyncer(cfg, "").ImportToFly(cmd.Context(), args[0])
		},
	}
}

func newFlyEditCommand(cfg *Config) *cobra.Command {
	var editorCmd string

	cmd := &cobra.Command{
		Use:   "edit <app_name>",
		Short: "Edit a fly app's 1Password payload in an editor",
		Long: `Edit the secure note backing a fly application's secrets.

The note content is opened in an editor; when it changed on exit the
note is updated in 1Password and you are asked whether to import the
new secrets to the fly app right away.

Examples:
  opsync fly edit myapp
  opsync fly edit myapp --editor subl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newSyncer(cfg, editorCmd).EditFlySecrets(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVar(&editorCmd, "editor", "", "Editor command to use (default \"code\")")
	return cmd
}
