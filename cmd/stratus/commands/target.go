package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// TargetInfo represents the current target information.
type TargetInfo struct {
	API     string `json:"api,omitempty"     yaml:"api,omitempty"`
	Account string `json:"account,omitempty" yaml:"account,omitempty"`
	Zone    string `json:"zone,omitempty"    yaml:"zone,omitempty"`
}

// NewTargetCommand creates the target command.
func NewTargetCommand() *cobra.Command {
	var (
		accountName string
		zoneName    string
	)

	cmd := &cobra.Command{
		Use:   "target",
		Short: "Set or show the targeted account and zone",
		Long:  "Set or display the account and zone used as defaults by other commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no flags provided, show current target
			if accountName == "" && zoneName == "" {
				return showTarget()
			}

			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()
			config := loadConfig()

			if accountName != "" {
				err := targetAccount(ctx, stratusClient, accountName, config)
				if err != nil {
					return err
				}

				// Zones hang off the account, so a new account clears a
				// previously targeted zone.
				if zoneName == "" {
					config.Zone = ""
					config.ZoneID = ""

					listAvailableZones(ctx, stratusClient, config.AccountID)
				}
			}

			if zoneName != "" {
				err := targetZone(ctx, stratusClient, zoneName, config)
				if err != nil {
					return err
				}
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&accountName, "account", "A", "", "target account")
	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "target zone")

	return cmd
}

// targetAccount targets the specified account and updates the config.
func targetAccount(ctx context.Context, stratusClient stratus.Client, accountName string, config *Config) error {
	account, err := resolveAccount(ctx, stratusClient, accountName)
	if err != nil {
		return err
	}

	config.Account = account.Name
	config.AccountID = account.ID
	_, _ = fmt.Fprintf(os.Stdout, "Targeted account: %s\n", account.Name)

	return nil
}

// targetZone targets the specified zone and updates the config.
func targetZone(ctx context.Context, stratusClient stratus.Client, zoneName string, config *Config) error {
	zone, err := resolveZone(ctx, stratusClient, zoneName)
	if err != nil {
		return err
	}

	config.Zone = zone.Name
	config.ZoneID = zone.ID
	_, _ = fmt.Fprintf(os.Stdout, "Targeted zone: %s\n", zone.Name)

	return nil
}

// listAvailableZones lists zones for the targeted account.
func listAvailableZones(ctx context.Context, stratusClient stratus.Client, accountID string) {
	params := stratus.NewQueryParams()
	if accountID != "" {
		params.WithFilter("account.id", accountID)
	}

	zones, err := stratusClient.Zones().List(ctx, params)
	if err == nil && len(zones.Result) > 0 {
		_, _ = os.Stdout.WriteString("\nAvailable zones:\n")

		for _, zone := range zones.Result {
			_, _ = fmt.Fprintf(os.Stdout, "  - %s\n", zone.Name)
		}

		_, _ = os.Stdout.WriteString("\nUse 'stratus target -z <zone>' to target a zone\n")
	}
}

func showTarget() error {
	config := loadConfig()

	if config.API == "" {
		_, _ = os.Stdout.WriteString("No API targeted. Use 'stratus login' to set one.\n")

		return nil
	}

	targetInfo := TargetInfo{
		API:     config.API,
		Account: config.Account,
		Zone:    config.Zone,
	}

	return renderOutput(targetInfo, displayTargetTable)
}

func displayTargetTable(targetInfo TargetInfo) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("API", targetInfo.API)

	if targetInfo.Account != "" {
		_ = table.Append("Account", targetInfo.Account)
	}

	if targetInfo.Zone != "" {
		_ = table.Append("Zone", targetInfo.Zone)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render target table: %w", err)
	}

	return nil
}
