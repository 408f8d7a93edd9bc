package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/opsync/internal/logging"
)

func testConfig() *Config {
	return &Config{Logger: logging.New(false, true)}
}

func findSubcommand(t *testing.T, parent *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, sub := range parent.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	t.Fatalf("subcommand %q not found under %q", name, parent.Name())
	return nil
}

func TestFlyCommandTree(t *testing.T) {
	t.Parallel()

	cmd := NewFlyCommand(testConfig())
	assert.Equal(t, "fly", cmd.Name())

	importCmd := findSubcommand(t, cmd, "import")
	editCmd := findSubcommand(t, cmd, "edit")

	// Both subcommands require exactly the app name.
	require.Error(t, importCmd.Args(importCmd, []string{}))
	require.NoError(t, importCmd.Args(importCmd, []string{"myapp"}))
	require.Error(t, importCmd.Args(importCmd, []string{"a", "b"}))
	require.NoError(t, editCmd.Args(editCmd, []string{"myapp"}))

	flag := editCmd.Flags().Lookup("editor")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
}

func TestLocalCommandTree(t *testing.T) {
	t.Parallel()

	cmd := NewLocalCommand(testConfig())
	assert.Equal(t, "local", cmd.Name())

	getCmd := findSubcommand(t, cmd, "get")
	pushCmd := findSubcommand(t, cmd, "push")

	require.NoError(t, getCmd.Args(getCmd, []string{}))
	require.Error(t, getCmd.Args(getCmd, []string{"extra"}))
	require.NoError(t, pushCmd.Args(pushCmd, []string{}))
}

func TestDoctorCommand(t *testing.T) {
	t.Parallel()

	cmd := NewDoctorCommand(testConfig())
	assert.Equal(t, "doctor", cmd.Name())
	require.Error(t, cmd.Args(cmd, []string{"extra"}))
}
