package commands_test

import (
	"testing"

	"github.com/stratus-io/stratus-go/cmd/stratus/commands"
	"github.com/stretchr/testify/assert"
)

func TestNewTokensCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewTokensCommand()
	assert.Equal(t, "tokens", cmd.Use)
	assert.Equal(t, []string{"token"}, cmd.Aliases)
	assert.Equal(t, "Manage API tokens", cmd.Short)
	assert.Equal(t, "List, create, update, delete, roll, and verify API tokens", cmd.Long)

	// Check subcommands are added
	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 7)

	commandNames := make([]string, 0, len(subcommands))
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "create")
	assert.Contains(t, commandNames, "update")
	assert.Contains(t, commandNames, "delete")
	assert.Contains(t, commandNames, "roll")
	assert.Contains(t, commandNames, "verify")
}

func TestTokensListCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewTokensCommand()
	cmd := findSubcommand(root, "list")
	assert.Equal(t, "list", cmd.Use)
	assert.Equal(t, "List API tokens", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	assert.NotNil(t, cmd.Flags().Lookup("all"))
	assert.NotNil(t, cmd.Flags().Lookup("per-page"))
}

func TestTokensCreateCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewTokensCommand()
	cmd := findSubcommand(root, "create")
	assert.Equal(t, "create", cmd.Use)
	assert.Equal(t, "Create an API token", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	flags := []string{"name", "policy-file", "expires", "not-before"}
	for _, flagName := range flags {
		flag := cmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "Flag %s should exist", flagName)
	}

	nameFlag := cmd.Flags().Lookup("name")
	assert.Equal(t, "n", nameFlag.Shorthand)
}

func TestTokensUpdateCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewTokensCommand()
	cmd := findSubcommand(root, "update")
	assert.Equal(t, "update TOKEN_NAME_OR_ID", cmd.Use)
	assert.Equal(t, "Update an API token", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	assert.NotNil(t, cmd.Flags().Lookup("name"))
	assert.NotNil(t, cmd.Flags().Lookup("status"))
}

func TestTokensDeleteCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewTokensCommand()
	cmd := findSubcommand(root, "delete")
	assert.Equal(t, "delete TOKEN_NAME_OR_ID", cmd.Use)
	assert.Equal(t, "Delete an API token", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	forceFlag := cmd.Flags().Lookup("force")
	assert.NotNil(t, forceFlag)
	assert.Equal(t, "f", forceFlag.Shorthand)
}

func TestTokensRollCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewTokensCommand()
	cmd := findSubcommand(root, "roll")
	assert.Equal(t, "roll TOKEN_NAME_OR_ID", cmd.Use)
	assert.Equal(t, "Roll an API token secret", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	forceFlag := cmd.Flags().Lookup("force")
	assert.NotNil(t, forceFlag)
	assert.Equal(t, "false", forceFlag.DefValue)
}

func TestTokensVerifyCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewTokensCommand()
	cmd := findSubcommand(root, "verify")
	assert.Equal(t, "verify", cmd.Use)
	assert.Equal(t, "Verify the current token", cmd.Short)
	assert.NotNil(t, cmd.RunE)
}
