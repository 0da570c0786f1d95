package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// NewZonesCommand creates the zones command group.
func NewZonesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "zones",
		Aliases: []string{"zone"},
		Short:   "Manage zones",
		Long:    "List, create, update, and delete Stratus zones",
	}

	cmd.AddCommand(newZonesListCommand())
	cmd.AddCommand(newZonesGetCommand())
	cmd.AddCommand(newZonesCreateCommand())
	cmd.AddCommand(newZonesUpdateCommand())
	cmd.AddCommand(newZonesDeleteCommand())
	cmd.AddCommand(newZonesPauseCommand())
	cmd.AddCommand(newZonesUnpauseCommand())
	cmd.AddCommand(newZonesPurgeCommand())

	return cmd
}

type zonesListFilters struct {
	allPages    bool
	perPage     int
	name        string
	status      string
	accountName string
	cmd         *cobra.Command
}

func newZonesListCommand() *cobra.Command {
	var (
		allPages    bool
		perPage     int
		name        string
		status      string
		accountName string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List zones",
		Long:  "List all zones the credential has access to",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := &zonesListFilters{
				allPages:    allPages,
				perPage:     perPage,
				name:        name,
				status:      status,
				accountName: accountName,
				cmd:         cmd,
			}

			return runZonesList(filters)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by zone name")
	cmd.Flags().StringVar(&status, "status", "", "filter by zone status")
	cmd.Flags().StringVarP(&accountName, "account", "A", "", "filter by account name or ID")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func runZonesList(filters *zonesListFilters) error {
	stratusClient, err := CreateClientWithAPI(filters.cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	params, err := buildZonesListParams(ctx, stratusClient, filters)
	if err != nil {
		return err
	}

	zones, err := stratusClient.Zones().List(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list zones: %w", err)
	}

	allZones, err := fetchRemainingPages(zones, params, filters.allPages, func(params *stratus.QueryParams) (*stratus.ListResponse[stratus.Zone], error) {
		return stratusClient.Zones().List(ctx, params)
	})
	if err != nil {
		return err
	}

	return renderOutput(allZones, func(results []stratus.Zone) error {
		return displayZonesTable(results, zones.Info, filters.allPages)
	})
}

func buildZonesListParams(ctx context.Context, stratusClient stratus.Client, filters *zonesListFilters) (*stratus.QueryParams, error) {
	params := stratus.NewQueryParams()
	params.PerPage = filters.perPage

	if filters.name != "" {
		params.WithFilter("name", filters.name)
	}

	if filters.status != "" {
		params.WithFilter("status", filters.status)
	}

	if filters.accountName != "" {
		account, err := resolveAccount(ctx, stratusClient, filters.accountName)
		if err != nil {
			return nil, err
		}

		params.WithFilter("account.id", account.ID)
	}

	return params, nil
}

func displayZonesTable(zones []stratus.Zone, info stratus.ResultInfo, allPages bool) error {
	if len(zones) == 0 {
		_, _ = os.Stdout.WriteString("No zones found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Status", "Paused", "Type", "Plan", "Created")

	for _, zone := range zones {
		_ = table.Append(zone.Name, zone.Status, formatBool(zone.Paused), zone.Type, formatZonePlan(zone.Plan), formatDate(zone.CreatedOn))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render zones table: %w", err)
	}

	printPageHint(info, allPages)

	return nil
}

func formatZonePlan(plan *stratus.ZonePlan) string {
	if plan == nil {
		return constants.NotAvailable
	}

	return plan.Name
}

func newZonesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ZONE_NAME_OR_ID",
		Short: "Get zone details",
		Long:  "Display detailed information about a specific zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			zone, err := resolveZone(ctx, stratusClient, args[0])
			if err != nil {
				return err
			}

			return renderOutput(zone, displayZoneDetailsTable)
		},
	}
}

func displayZoneDetailsTable(zone *stratus.Zone) error {
	displayEntityHeading("zone", zone.Name)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Name", zone.Name)
	_ = table.Append("ID", zone.ID)
	_ = table.Append("Status", zone.Status)
	_ = table.Append("Paused", formatBool(zone.Paused))
	_ = table.Append("Type", zone.Type)
	_ = table.Append("Account", zone.Account.Name)

	if len(zone.NameServers) > 0 {
		_ = table.Append("Name Servers", strings.Join(zone.NameServers, ", "))
	}

	if len(zone.VanityNameServers) > 0 {
		_ = table.Append("Vanity Name Servers", strings.Join(zone.VanityNameServers, ", "))
	}

	if zone.Plan != nil {
		_ = table.Append("Plan", zone.Plan.Name)
	}

	if zone.ActivatedOn != nil {
		_ = table.Append("Activated", formatTimePtr(zone.ActivatedOn))
	}

	_ = table.Append("Created", formatTime(zone.CreatedOn))
	_ = table.Append("Modified", formatTime(zone.ModifiedOn))

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render zone table: %w", err)
	}

	return nil
}

func newZonesCreateCommand() *cobra.Command {
	var (
		name        string
		accountName string
		zoneType    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a zone",
		Long:  "Create a new zone in an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return ErrZoneNameRequired
			}

			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			accountID, err := requireAccountID(ctx, stratusClient, accountName)
			if err != nil {
				return err
			}

			createReq := &stratus.ZoneCreateRequest{
				Name:    name,
				Account: stratus.AccountReference{ID: accountID},
			}

			if zoneType != "" {
				createReq.Type = zoneType
			}

			zone, err := stratusClient.Zones().Create(ctx, createReq)
			if err != nil {
				return fmt.Errorf("failed to create zone: %w", err)
			}

			displaySuccess("created", "zone", zone.Name)
			_, _ = fmt.Fprintf(os.Stdout, "  ID: %s\n", zone.ID)
			_, _ = fmt.Fprintf(os.Stdout, "  Status: %s\n", zone.Status)

			if len(zone.NameServers) > 0 {
				_, _ = fmt.Fprintf(os.Stdout, "  Name servers: %s\n", strings.Join(zone.NameServers, ", "))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "zone name (required)")
	cmd.Flags().StringVarP(&accountName, "account", "A", "", "account name or ID")
	cmd.Flags().StringVar(&zoneType, "type", "", "zone type (full or partial)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newZonesUpdateCommand() *cobra.Command {
	var vanityNameServers []string

	cmd := &cobra.Command{
		Use:   "update ZONE_NAME_OR_ID",
		Short: "Update a zone",
		Long:  "Update zone settings such as vanity name servers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			zone, err := resolveZone(ctx, stratusClient, args[0])
			if err != nil {
				return err
			}

			updateReq := &stratus.ZoneUpdateRequest{}

			if cmd.Flags().Changed("vanity-ns") {
				updateReq.VanityNameServers = vanityNameServers
			}

			updatedZone, err := stratusClient.Zones().Update(ctx, zone.ID, updateReq)
			if err != nil {
				return fmt.Errorf("failed to update zone: %w", err)
			}

			displaySuccess("updated", "zone", updatedZone.Name)

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&vanityNameServers, "vanity-ns", nil, "vanity name servers (repeatable)")

	return cmd
}

func newZonesDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete ZONE_NAME_OR_ID",
		Short: "Delete a zone",
		Long:  "Delete a zone and all resources in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			zone, err := resolveZone(ctx, stratusClient, args[0])
			if err != nil {
				return err
			}

			if !confirmAction(fmt.Sprintf("Really delete zone '%s'?", zone.Name), force) {
				return nil
			}

			err = stratusClient.Zones().Delete(ctx, zone.ID)
			if err != nil {
				return fmt.Errorf("failed to delete zone: %w", err)
			}

			displaySuccess("deleted", "zone", zone.Name)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}

func newZonesPauseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pause ZONE_NAME_OR_ID",
		Short: "Pause a zone",
		Long:  "Pause traffic processing for a zone, serving DNS only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runZonePauseToggle(cmd, args[0], true)
		},
	}
}

func newZonesUnpauseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unpause ZONE_NAME_OR_ID",
		Short: "Unpause a zone",
		Long:  "Resume traffic processing for a paused zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runZonePauseToggle(cmd, args[0], false)
		},
	}
}

func runZonePauseToggle(cmd *cobra.Command, nameOrID string, pause bool) error {
	stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	zone, err := resolveZone(ctx, stratusClient, nameOrID)
	if err != nil {
		return err
	}

	if pause {
		zone, err = stratusClient.Zones().Pause(ctx, zone.ID)
		if err != nil {
			return fmt.Errorf("failed to pause zone: %w", err)
		}

		displaySuccess("paused", "zone", zone.Name)

		return nil
	}

	zone, err = stratusClient.Zones().Unpause(ctx, zone.ID)
	if err != nil {
		return fmt.Errorf("failed to unpause zone: %w", err)
	}

	displaySuccess("unpaused", "zone", zone.Name)

	return nil
}

func newZonesPurgeCommand() *cobra.Command {
	var (
		everything bool
		files      []string
		hosts      []string
		tags       []string
	)

	cmd := &cobra.Command{
		Use:   "purge ZONE_NAME_OR_ID",
		Short: "Purge a zone's cache",
		Long:  "Purge cached content for a zone, either everything or selected files, hosts, or tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			zone, err := resolveZone(ctx, stratusClient, args[0])
			if err != nil {
				return err
			}

			purgeReq := &stratus.ZonePurgeRequest{}
			if everything {
				purgeReq.PurgeEverything = &everything
			}

			purgeReq.Files = files
			purgeReq.Hosts = hosts
			purgeReq.Tags = tags

			result, err := stratusClient.Zones().PurgeCache(ctx, zone.ID, purgeReq)
			if err != nil {
				return fmt.Errorf("failed to purge zone cache: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Purged cache for zone '%s' (purge ID: %s)\n", zone.Name, result.ID)

			return nil
		},
	}

	cmd.Flags().BoolVar(&everything, "everything", false, "purge all cached content")
	cmd.Flags().StringArrayVar(&files, "files", nil, "URLs to purge (repeatable)")
	cmd.Flags().StringArrayVar(&hosts, "hosts", nil, "hosts to purge (repeatable)")
	cmd.Flags().StringArrayVar(&tags, "tags", nil, "cache tags to purge (repeatable)")

	return cmd
}
