package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// NewAccountsCommand creates the accounts command group.
func NewAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage accounts",
		Long:    "List, inspect, and update the accounts the authenticated user belongs to",
	}

	cmd.AddCommand(newAccountsListCommand())
	cmd.AddCommand(newAccountsGetCommand())
	cmd.AddCommand(newAccountsUpdateCommand())

	return cmd
}

func newAccountsListCommand() *cobra.Command {
	var (
		name     string
		allPages bool
		perPage  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Long:  "List the accounts the authenticated user belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			params := stratus.NewQueryParams()
			params.PerPage = perPage

			if name != "" {
				params.WithFilter("name", name)
			}

			accounts, err := stratusClient.Accounts().List(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			allAccounts, err := fetchRemainingPages(accounts, params, allPages, func(params *stratus.QueryParams) (*stratus.ListResponse[stratus.Account], error) {
				return stratusClient.Accounts().List(ctx, params)
			})
			if err != nil {
				return err
			}

			return renderOutput(allAccounts, func(results []stratus.Account) error {
				return displayAccountsTable(results, accounts.Info, allPages)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by account name")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func displayAccountsTable(accounts []stratus.Account, info stratus.ResultInfo, allPages bool) error {
	if len(accounts) == 0 {
		_, _ = os.Stdout.WriteString("No accounts found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Type", "Created", "ID")

	for _, account := range accounts {
		_ = table.Append(account.Name, valueOrNA(account.Type), formatDatePtr(account.CreatedOn), account.ID)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render accounts table: %w", err)
	}

	printPageHint(info, allPages)

	return nil
}

func newAccountsGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get ACCOUNT_NAME_OR_ID",
		Short: "Get account details",
		Long:  "Display detailed information about a specific account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			account, err := resolveAccount(ctx, stratusClient, args[0])
			if err != nil {
				return err
			}

			return renderOutput(account, displayAccountDetailsTable)
		},
	}

	return cmd
}

func displayAccountDetailsTable(account *stratus.Account) error {
	displayEntityHeading("account", account.Name)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Name", account.Name)
	_ = table.Append("ID", account.ID)
	_ = table.Append("Type", valueOrNA(account.Type))
	_ = table.Append("Created", formatTimePtr(account.CreatedOn))

	if account.Settings != nil {
		_ = table.Append("Enforce Two-Factor", formatBool(account.Settings.EnforceTwoFactor))

		if account.Settings.DefaultNameservers != "" {
			_ = table.Append("Default Nameservers", account.Settings.DefaultNameservers)
		}

		if account.Settings.AbuseContactEmail != "" {
			_ = table.Append("Abuse Contact", account.Settings.AbuseContactEmail)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render account table: %w", err)
	}

	return nil
}

func newAccountsUpdateCommand() *cobra.Command {
	var (
		newName          string
		enforceTwoFactor bool
	)

	cmd := &cobra.Command{
		Use:   "update ACCOUNT_NAME_OR_ID",
		Short: "Update an account",
		Long:  "Update an account's name or settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			account, err := resolveAccount(ctx, stratusClient, args[0])
			if err != nil {
				return err
			}

			updateReq := &stratus.AccountUpdateRequest{}

			if cmd.Flags().Changed("name") {
				updateReq.Name = &newName
			}

			if cmd.Flags().Changed("enforce-two-factor") {
				// Settings replace wholesale, so carry the current values.
				settings := stratus.AccountSettings{}
				if account.Settings != nil {
					settings = *account.Settings
				}

				settings.EnforceTwoFactor = enforceTwoFactor
				updateReq.Settings = &settings
			}

			updated, err := stratusClient.Accounts().Update(ctx, account.ID, updateReq)
			if err != nil {
				return fmt.Errorf("failed to update account: %w", err)
			}

			displaySuccess("updated", "account", updated.Name)

			return nil
		},
	}

	cmd.Flags().StringVarP(&newName, "name", "n", "", "new account name")
	cmd.Flags().BoolVar(&enforceTwoFactor, "enforce-two-factor", false, "require two-factor authentication for members")

	return cmd
}
