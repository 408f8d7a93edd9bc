package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/opsync/cmd/opsync/commands"
	"github.com/systmms/opsync/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		noColor        bool
		debug          bool
		nonInteractive bool
	)

	cfg := &commands.Config{}

	rootCmd := &cobra.Command{
		Use:   "opsync",
		Short: "Sync 1Password secrets to Fly.io and local env files",
		Long: `opsync synchronizes secrets between 1Password secure notes, the
secret store of Fly.io applications, and local .env files.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Logger = logging.New(debug, noColor)
			cfg.NonInteractive = nonInteractive
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Non-interactive mode")

	rootCmd.AddCommand(
		commands.NewFlyCommand(cfg),
		commands.NewLocalCommand(cfg),
		commands.NewDoctorCommand(cfg),
	)

	return rootCmd.Execute()
}
