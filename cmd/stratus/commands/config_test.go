package commands_test

import (
	"testing"

	"github.com/stratus-io/stratus-go/cmd/stratus/commands"
	"github.com/stretchr/testify/assert"
)

func TestNewConfigCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConfigCommand()
	assert.Equal(t, "config", cmd.Use)
	assert.Equal(t, "Manage CLI configuration", cmd.Short)
	assert.Equal(t, "Manage Stratus CLI configuration including credentials, targets, and settings", cmd.Long)

	// Check subcommands are added
	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 4)

	commandNames := make([]string, 0, len(subcommands))
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "set")
	assert.Contains(t, commandNames, "unset")
	assert.Contains(t, commandNames, "clear")
}

func TestConfigSetCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewConfigCommand()
	cmd := findSubcommand(root, "set")
	assert.Equal(t, "set KEY VALUE", cmd.Use)
	assert.Equal(t, "Set a configuration value", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}

func TestConfigUnsetCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewConfigCommand()
	cmd := findSubcommand(root, "unset")
	assert.Equal(t, "unset KEY", cmd.Use)
	assert.Equal(t, "Unset a configuration value", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}

func TestConfigClearCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewConfigCommand()
	cmd := findSubcommand(root, "clear")
	assert.Equal(t, "clear", cmd.Use)
	assert.Equal(t, "Clear configuration", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	forceFlag := cmd.Flags().Lookup("force")
	assert.NotNil(t, forceFlag)
	assert.Equal(t, "f", forceFlag.Shorthand)
}
