package commands

import (
	"github.com/spf13/cobra"
)

func NewLocalCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Manage the current repository's local env file",
	}

	cmd.AddCommand(newLocalGetCommand(cfg), newLocalPushCommand(cfg))
	return cmd
}

func newLocalGetCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Write the repository's 1Password payload to the local env file",
		Long: `Fetch the env file for the current repository from 1Password.

The repository identity (owner/name) is derived from the git remote
"origin"; the secure note titled "repo:<owner/name>" is written to the
local env file as-is. The target file name defaults to .env unless the
note carries a file_name field.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newSyncer(cfg, "").GetLocal(cmd.Context())
		},
	}
}

func newLocalPushCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload the local env file to the repository's 1Password item",
		Long: `Push the local env file for the current repository to 1Password.

The file is uploaded verbatim into the notes of the secure note titled
"repo:<owner/name>".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newSyncer(cfg, "").PushLocal(cmd.Context())
		},
	}
}
