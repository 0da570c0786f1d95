package commands_test

import (
	"testing"

	"github.com/stratus-io/stratus-go/cmd/stratus/commands"
	"github.com/stretchr/testify/assert"
)

func TestNewBucketsCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewBucketsCommand()
	assert.Equal(t, "buckets", cmd.Use)
	assert.Equal(t, []string{"bucket", "storage"}, cmd.Aliases)
	assert.Equal(t, "Manage storage buckets", cmd.Short)
	assert.Equal(t, "List, create, and delete S3-compatible storage buckets in an account", cmd.Long)

	// Check subcommands are added
	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 4)

	commandNames := make([]string, 0, len(subcommands))
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "create")
	assert.Contains(t, commandNames, "delete")
}

func TestBucketsListCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewBucketsCommand()
	cmd := findSubcommand(root, "list")
	assert.Equal(t, "list", cmd.Use)
	assert.Equal(t, "List buckets", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	accountFlag := cmd.Flags().Lookup("account")
	assert.NotNil(t, accountFlag)
	assert.Equal(t, "A", accountFlag.Shorthand)

	assert.NotNil(t, cmd.Flags().Lookup("all"))
	assert.NotNil(t, cmd.Flags().Lookup("per-page"))
}

func TestBucketsGetCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewBucketsCommand()
	cmd := findSubcommand(root, "get")
	assert.Equal(t, "get BUCKET_NAME", cmd.Use)
	assert.Equal(t, "Get bucket details", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}

func TestBucketsCreateCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewBucketsCommand()
	cmd := findSubcommand(root, "create")
	assert.Equal(t, "create", cmd.Use)
	assert.Equal(t, "Create a bucket", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	flags := []string{"account", "name", "location", "storage-class"}
	for _, flagName := range flags {
		flag := cmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "Flag %s should exist", flagName)
	}
}

func TestBucketsDeleteCommand(t *testing.T) {
	t.Parallel()

	root := commands.NewBucketsCommand()
	cmd := findSubcommand(root, "delete")
	assert.Equal(t, "delete BUCKET_NAME", cmd.Use)
	assert.Equal(t, "Delete a bucket", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	forceFlag := cmd.Flags().Lookup("force")
	assert.NotNil(t, forceFlag)
	assert.Equal(t, "f", forceFlag.Shorthand)
	assert.Equal(t, "false", forceFlag.DefValue)
}
