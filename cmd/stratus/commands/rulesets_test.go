package commands_test

import (
	"testing"

	"github.com/stratus-io/stratus-go/cmd/stratus/commands"
	"github.com/stretchr/testify/assert"
)

func TestNewRulesetsCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewRulesetsCommand()
	assert.Equal(t, "rulesets", cmd.Use)
	assert.Equal(t, []string{"ruleset", "firewall"}, cmd.Aliases)
	assert.Equal(t, "Manage firewall rulesets", cmd.Short)
	assert.Equal(t, "List, create, update, and delete firewall rulesets in a zone", cmd.Long)

	// Check subcommands are added
	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 5)

	commandNames := make([]string, 0, len(subcommands))
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "create")
	assert.Contains(t, commandNames, "update")
	assert.Contains(t, commandNames, "delete")
}

func TestRulesetsListCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewRulesetsCommand()
	cmd := findSubcommand(root, "list")
	assert.Equal(t, "list", cmd.Use)
	assert.Equal(t, "List rulesets", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	assert.NotNil(t, cmd.Flags().Lookup("zone"))
	assert.NotNil(t, cmd.Flags().Lookup("phase"))
	assert.NotNil(t, cmd.Flags().Lookup("all"))
	assert.NotNil(t, cmd.Flags().Lookup("per-page"))
}

func TestRulesetsGetCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewRulesetsCommand()
	cmd := findSubcommand(root, "get")
	assert.Equal(t, "get RULESET_NAME_OR_ID", cmd.Use)
	assert.Equal(t, "Get ruleset details", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}

func TestRulesetsCreateCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewRulesetsCommand()
	cmd := findSubcommand(root, "create")
	assert.Equal(t, "create", cmd.Use)
	assert.Equal(t, "Create a ruleset", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	flags := []string{"zone", "name", "kind", "phase", "description", "rules-file"}
	for _, flagName := range flags {
		flag := cmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "Flag %s should exist", flagName)
	}

	// Check flag defaults
	kindFlag := cmd.Flags().Lookup("kind")
	assert.Equal(t, "zone", kindFlag.DefValue)

	phaseFlag := cmd.Flags().Lookup("phase")
	assert.Equal(t, "http_request_firewall_custom", phaseFlag.DefValue)
}

func TestRulesetsUpdateCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewRulesetsCommand()
	cmd := findSubcommand(root, "update")
	assert.Equal(t, "update RULESET_NAME_OR_ID", cmd.Use)
	assert.Equal(t, "Update a ruleset", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	assert.NotNil(t, cmd.Flags().Lookup("description"))
	assert.NotNil(t, cmd.Flags().Lookup("rules-file"))
}

func TestRulesetsDeleteCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewRulesetsCommand()
	cmd := findSubcommand(root, "delete")
	assert.Equal(t, "delete RULESET_NAME_OR_ID", cmd.Use)
	assert.Equal(t, "Delete a ruleset", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	forceFlag := cmd.Flags().Lookup("force")
	assert.NotNil(t, forceFlag)
	assert.Equal(t, "f", forceFlag.Shorthand)
}
