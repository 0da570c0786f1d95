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

// NewSecurityEventsCommand creates the security-events command group.
func NewSecurityEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "security-events",
		Aliases: []string{"security", "se"},
		Short:   "Inspect zone firewall activity",
		Long:    "List and inspect security events recorded by a zone's firewall",
	}

	cmd.AddCommand(newSecurityEventsListCommand())
	cmd.AddCommand(newSecurityEventsGetCommand())

	return cmd
}

func newSecurityEventsListCommand() *cobra.Command {
	var (
		zoneName string
		action   string
		clientIP string
		allPages bool
		perPage  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List security events",
		Long:  "List security events for a zone, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			zoneID, err := requireZoneID(ctx, stratusClient, zoneName)
			if err != nil {
				return err
			}

			params := stratus.NewQueryParams()
			params.PerPage = perPage

			if action != "" {
				params.WithFilter("action", action)
			}

			if clientIP != "" {
				params.WithFilter("client_ip", clientIP)
			}

			events, err := stratusClient.SecurityEvents().List(ctx, zoneID, params)
			if err != nil {
				return fmt.Errorf("failed to list security events: %w", err)
			}

			allEvents, err := fetchRemainingPages(events, params, allPages, func(params *stratus.QueryParams) (*stratus.ListResponse[stratus.SecurityEvent], error) {
				return stratusClient.SecurityEvents().List(ctx, zoneID, params)
			})
			if err != nil {
				return err
			}

			return renderOutput(allEvents, func(results []stratus.SecurityEvent) error {
				return displaySecurityEventsTable(results, events.Info, allPages)
			})
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")
	cmd.Flags().StringVar(&action, "action", "", "filter by action taken (block, challenge, log, ...)")
	cmd.Flags().StringVar(&clientIP, "client-ip", "", "filter by client IP")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func displaySecurityEventsTable(events []stratus.SecurityEvent, info stratus.ResultInfo, allPages bool) error {
	if len(events) == 0 {
		_, _ = os.Stdout.WriteString("No security events found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Occurred", "Action", "Client IP", "Country", "Host", "Method", "Rule")

	for _, event := range events {
		_ = table.Append(formatTime(event.OccurredAt), event.Action, event.ClientIP,
			valueOrNA(event.Country), event.Host, event.Method, valueOrNA(event.RuleID))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render security events table: %w", err)
	}

	printPageHint(info, allPages)

	return nil
}

func newSecurityEventsGetCommand() *cobra.Command {
	var zoneName string

	cmd := &cobra.Command{
		Use:   "get EVENT_ID",
		Short: "Get security event details",
		Long:  "Display a single security event recorded by the zone firewall",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			zoneID, err := requireZoneID(ctx, stratusClient, zoneName)
			if err != nil {
				return err
			}

			event, err := stratusClient.SecurityEvents().Get(ctx, zoneID, args[0])
			if err != nil {
				return fmt.Errorf("failed to get security event: %w", err)
			}

			return renderOutput(event, displaySecurityEventDetailsTable)
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")

	return cmd
}

func displaySecurityEventDetailsTable(event *stratus.SecurityEvent) error {
	displayEntityHeading("security event", event.ID)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", event.ID)
	_ = table.Append("Occurred", formatTime(event.OccurredAt))
	_ = table.Append("Action", event.Action)
	_ = table.Append("Client IP", event.ClientIP)
	_ = table.Append("Country", valueOrNA(event.Country))
	_ = table.Append("Host", event.Host)
	_ = table.Append("Method", event.Method)
	_ = table.Append("Protocol", valueOrNA(event.Proto))
	_ = table.Append("Rule", valueOrNA(event.RuleID))
	_ = table.Append("Source", valueOrNA(event.Source))

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render security event table: %w", err)
	}

	return nil
}
