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

// NewAuditEventsCommand creates the audit-events command group.
func NewAuditEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "audit-events",
		Aliases: []string{"audit", "ae"},
		Short:   "Inspect the account audit log",
		Long:    "List and inspect configuration changes recorded in the account audit log",
	}

	cmd.AddCommand(newAuditEventsListCommand())
	cmd.AddCommand(newAuditEventsGetCommand())

	return cmd
}

func newAuditEventsListCommand() *cobra.Command {
	var (
		accountName string
		actorEmail  string
		actionType  string
		since       string
		before      string
		allPages    bool
		perPage     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit events",
		Long:  "List audit events for an account, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			accountID, err := requireAccountID(ctx, stratusClient, accountName)
			if err != nil {
				return err
			}

			params := stratus.NewQueryParams()
			params.PerPage = perPage

			if actorEmail != "" {
				params.WithFilter("actor.email", actorEmail)
			}

			if actionType != "" {
				params.WithFilter("action.type", actionType)
			}

			if since != "" {
				params.WithFilter("since", since)
			}

			if before != "" {
				params.WithFilter("before", before)
			}

			events, err := stratusClient.AuditEvents().List(ctx, accountID, params)
			if err != nil {
				return fmt.Errorf("failed to list audit events: %w", err)
			}

			allEvents, err := fetchRemainingPages(events, params, allPages, func(params *stratus.QueryParams) (*stratus.ListResponse[stratus.AuditEvent], error) {
				return stratusClient.AuditEvents().List(ctx, accountID, params)
			})
			if err != nil {
				return err
			}

			return renderOutput(allEvents, func(results []stratus.AuditEvent) error {
				return displayAuditEventsTable(results, events.Info, allPages)
			})
		},
	}

	cmd.Flags().StringVarP(&accountName, "account", "A", "", "account name or ID")
	cmd.Flags().StringVar(&actorEmail, "actor", "", "filter by actor email")
	cmd.Flags().StringVar(&actionType, "action-type", "", "filter by action type")
	cmd.Flags().StringVar(&since, "since", "", "only events at or after this RFC 3339 time")
	cmd.Flags().StringVar(&before, "before", "", "only events before this RFC 3339 time")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func displayAuditEventsTable(events []stratus.AuditEvent, info stratus.ResultInfo, allPages bool) error {
	if len(events) == 0 {
		_, _ = os.Stdout.WriteString("No audit events found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("When", "Action", "Result", "Actor", "Resource", "ID")

	for _, event := range events {
		_ = table.Append(formatTime(event.When), event.Action.Type,
			formatActionResult(event.Action.Result),
			valueOrNA(event.Actor.Email),
			formatAuditResource(event.Resource),
			event.ID)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render audit events table: %w", err)
	}

	printPageHint(info, allPages)

	return nil
}

func formatActionResult(success bool) string {
	if success {
		return "success"
	}

	return "failure"
}

func formatAuditResource(resource stratus.AuditEventResource) string {
	if resource.Type == "" {
		return constants.NotAvailable
	}

	if resource.ID == "" {
		return resource.Type
	}

	return fmt.Sprintf("%s/%s", resource.Type, resource.ID)
}

func newAuditEventsGetCommand() *cobra.Command {
	var accountName string

	cmd := &cobra.Command{
		Use:   "get EVENT_ID",
		Short: "Get audit event details",
		Long:  "Display a single audit event including old and new values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			accountID, err := requireAccountID(ctx, stratusClient, accountName)
			if err != nil {
				return err
			}

			event, err := stratusClient.AuditEvents().Get(ctx, accountID, args[0])
			if err != nil {
				return fmt.Errorf("failed to get audit event: %w", err)
			}

			return renderOutput(event, displayAuditEventDetailsTable)
		},
	}

	cmd.Flags().StringVarP(&accountName, "account", "A", "", "account name or ID")

	return cmd
}

func displayAuditEventDetailsTable(event *stratus.AuditEvent) error {
	displayEntityHeading("audit event", event.ID)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", event.ID)
	_ = table.Append("When", formatTime(event.When))
	_ = table.Append("Action", event.Action.Type)
	_ = table.Append("Result", formatActionResult(event.Action.Result))
	_ = table.Append("Actor", valueOrNA(event.Actor.Email))
	_ = table.Append("Actor IP", valueOrNA(event.Actor.IP))
	_ = table.Append("Actor Type", valueOrNA(event.Actor.Type))
	_ = table.Append("Resource", formatAuditResource(event.Resource))

	if event.OldValue != "" {
		_ = table.Append("Old Value", truncate(event.OldValue, constants.DescriptionDisplayLength))
	}

	if event.NewValue != "" {
		_ = table.Append("New Value", truncate(event.NewValue, constants.DescriptionDisplayLength))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render audit event table: %w", err)
	}

	return nil
}
