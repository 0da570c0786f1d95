package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/pkg/stratus"
	"gopkg.in/yaml.v3"
)

// NewTokensCommand creates the tokens command group.
func NewTokensCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tokens",
		Aliases: []string{"token"},
		Short:   "Manage API tokens",
		Long:    "List, create, update, delete, roll, and verify API tokens",
	}

	cmd.AddCommand(newTokensListCommand())
	cmd.AddCommand(newTokensGetCommand())
	cmd.AddCommand(newTokensCreateCommand())
	cmd.AddCommand(newTokensUpdateCommand())
	cmd.AddCommand(newTokensDeleteCommand())
	cmd.AddCommand(newTokensRollCommand())
	cmd.AddCommand(newTokensVerifyCommand())

	return cmd
}

func newTokensListCommand() *cobra.Command {
	var (
		allPages bool
		perPage  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List API tokens",
		Long:  "List the API tokens of the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			params := stratus.NewQueryParams()
			params.PerPage = perPage

			tokens, err := stratusClient.Tokens().List(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to list API tokens: %w", err)
			}

			allTokens, err := fetchRemainingPages(tokens, params, allPages, func(params *stratus.QueryParams) (*stratus.ListResponse[stratus.APIToken], error) {
				return stratusClient.Tokens().List(ctx, params)
			})
			if err != nil {
				return err
			}

			return renderOutput(allTokens, func(results []stratus.APIToken) error {
				return displayTokensTable(results, tokens.Info, allPages)
			})
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func displayTokensTable(tokens []stratus.APIToken, info stratus.ResultInfo, allPages bool) error {
	if len(tokens) == 0 {
		_, _ = os.Stdout.WriteString("No API tokens found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Status", "Issued", "Expires", "Last Used", "ID")

	for _, token := range tokens {
		_ = table.Append(token.Name, token.Status,
			formatDatePtr(token.IssuedOn),
			formatDatePtr(token.ExpiresOn),
			formatDatePtr(token.LastUsedOn),
			token.ID)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render API tokens table: %w", err)
	}

	printPageHint(info, allPages)

	return nil
}

func newTokensGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get TOKEN_NAME_OR_ID",
		Short: "Get API token details",
		Long:  "Display detailed information about a specific API token; the secret is never shown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			token, err := resolveToken(ctx, stratusClient, args[0])
			if err != nil {
				return err
			}

			return renderOutput(token, displayTokenDetailsTable)
		},
	}

	return cmd
}

func displayTokenDetailsTable(token *stratus.APIToken) error {
	displayEntityHeading("API token", token.Name)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Name", token.Name)
	_ = table.Append("ID", token.ID)
	_ = table.Append("Status", token.Status)
	_ = table.Append("Value", constants.MaskedSecret)
	_ = table.Append("Issued", formatTimePtr(token.IssuedOn))
	_ = table.Append("Modified", formatTimePtr(token.ModifiedOn))
	_ = table.Append("Not Before", formatTimePtr(token.NotBefore))
	_ = table.Append("Expires", formatTimePtr(token.ExpiresOn))
	_ = table.Append("Last Used", formatTimePtr(token.LastUsedOn))
	_ = table.Append("Policies", fmt.Sprintf("%d", len(token.Policies)))

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render API token table: %w", err)
	}

	return nil
}

func newTokensCreateCommand() *cobra.Command {
	var (
		name       string
		policyFile string
		expiresOn  string
		notBefore  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API token",
		Long:  "Create a new API token; the secret is printed once and cannot be retrieved later",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return ErrTokenNameRequired
			}

			policies, err := readPoliciesFile(policyFile)
			if err != nil {
				return err
			}

			createReq := &stratus.TokenCreateRequest{
				Name:     name,
				Policies: policies,
			}

			createReq.ExpiresOn, err = parseTimeFlag(cmd, "expires", expiresOn)
			if err != nil {
				return err
			}

			createReq.NotBefore, err = parseTimeFlag(cmd, "not-before", notBefore)
			if err != nil {
				return err
			}

			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			token, err := stratusClient.Tokens().Create(ctx, createReq)
			if err != nil {
				return fmt.Errorf("failed to create API token: %w", err)
			}

			displaySuccess("created", "API token", token.Name)
			_, _ = fmt.Fprintf(os.Stdout, "  ID: %s\n", token.ID)
			printTokenSecret(token.Value)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "token name (required)")
	cmd.Flags().StringVar(&policyFile, "policy-file", "", "token policies in YAML or JSON format (required)")
	cmd.Flags().StringVar(&expiresOn, "expires", "", "expiry time in RFC 3339 format")
	cmd.Flags().StringVar(&notBefore, "not-before", "", "validity start time in RFC 3339 format")
	_ = cmd.MarkFlagRequired("policy-file")

	return cmd
}

// printTokenSecret prints the one-time token secret with a warning. Create
// and roll are the only operations that ever see the secret.
func printTokenSecret(value string) {
	if value == "" {
		return
	}

	_, _ = fmt.Fprintf(os.Stdout, "  Token: %s\n", value)
	_, _ = os.Stdout.WriteString("\nSave this token now. It will not be shown again.\n")
}

// parseTimeFlag parses an RFC 3339 flag value, returning nil when the flag
// was not set.
func parseTimeFlag(cmd *cobra.Command, flagName, value string) (*time.Time, error) {
	if !cmd.Flags().Changed(flagName) || value == "" {
		return nil, nil //nolint:nilnil // unset flag means no value, not an error
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse --%s: %w", flagName, err)
	}

	return &parsed, nil
}

// readPoliciesFile loads a token policy list from a YAML or JSON file.
func readPoliciesFile(path string) ([]stratus.TokenPolicy, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is a user-supplied CLI argument
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var policies []stratus.TokenPolicy

	err = yaml.Unmarshal(data, &policies)
	if err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	return policies, nil
}

func newTokensUpdateCommand() *cobra.Command {
	var (
		newName string
		status  string
	)

	cmd := &cobra.Command{
		Use:   "update TOKEN_NAME_OR_ID",
		Short: "Update an API token",
		Long:  "Update an API token's name or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			token, err := resolveToken(ctx, stratusClient, args[0])
			if err != nil {
				return err
			}

			updateReq := &stratus.TokenUpdateRequest{}

			if cmd.Flags().Changed("name") {
				updateReq.Name = &newName
			}

			if cmd.Flags().Changed("status") {
				updateReq.Status = &status
			}

			updated, err := stratusClient.Tokens().Update(ctx, token.ID, updateReq)
			if err != nil {
				return fmt.Errorf("failed to update API token: %w", err)
			}

			displaySuccess("updated", "API token", updated.Name)

			return nil
		},
	}

	cmd.Flags().StringVarP(&newName, "name", "n", "", "new token name")
	cmd.Flags().StringVar(&status, "status", "", "new token status (active or disabled)")

	return cmd
}

func newTokensDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete TOKEN_NAME_OR_ID",
		Short: "Delete an API token",
		Long:  "Delete an API token; requests using it are rejected immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			token, err := resolveToken(ctx, stratusClient, args[0])
			if err != nil {
				return err
			}

			if !confirmAction(fmt.Sprintf("Really delete API token '%s'?", token.Name), force) {
				return nil
			}

			err = stratusClient.Tokens().Delete(ctx, token.ID)
			if err != nil {
				return fmt.Errorf("failed to delete API token: %w", err)
			}

			displaySuccess("deleted", "API token", token.Name)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}

func newTokensRollCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "roll TOKEN_NAME_OR_ID",
		Short: "Roll an API token secret",
		Long:  "Replace an API token's secret; the old secret stops working immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			token, err := resolveToken(ctx, stratusClient, args[0])
			if err != nil {
				return err
			}

			if !confirmAction(fmt.Sprintf("Really roll API token '%s'? The current secret stops working.", token.Name), force) {
				return nil
			}

			rolled, err := stratusClient.Tokens().Roll(ctx, token.ID)
			if err != nil {
				return fmt.Errorf("failed to roll API token: %w", err)
			}

			displaySuccess("rolled", "API token", rolled.Name)
			printTokenSecret(rolled.Value)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "roll without confirmation")

	return cmd
}

func newTokensVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the current token",
		Long:  "Verify the token used for authentication and report its status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			result, err := stratusClient.Tokens().Verify(ctx)
			if err != nil {
				return fmt.Errorf("failed to verify token: %w", err)
			}

			return renderOutput(result, displayTokenVerifyTable)
		},
	}

	return cmd
}

func displayTokenVerifyTable(result *stratus.TokenVerifyResult) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", result.ID)
	_ = table.Append("Status", result.Status)
	_ = table.Append("Not Before", formatTimePtr(result.NotBefore))
	_ = table.Append("Expires", formatTimePtr(result.ExpiresOn))

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render token verification table: %w", err)
	}

	return nil
}
