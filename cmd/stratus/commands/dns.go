package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/pkg/stratus"
	"gopkg.in/yaml.v3"
)

// NewDNSCommand creates the dns command group.
func NewDNSCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dns",
		Aliases: []string{"records"},
		Short:   "Manage DNS records",
		Long:    "List, create, update, delete, export, and import DNS records in a zone",
	}

	cmd.AddCommand(newDNSListCommand())
	cmd.AddCommand(newDNSGetCommand())
	cmd.AddCommand(newDNSCreateCommand())
	cmd.AddCommand(newDNSUpdateCommand())
	cmd.AddCommand(newDNSDeleteCommand())
	cmd.AddCommand(newDNSExportCommand())
	cmd.AddCommand(newDNSImportCommand())

	return cmd
}

func newDNSListCommand() *cobra.Command {
	var (
		zoneName   string
		recordType string
		recordName string
		allPages   bool
		perPage    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List DNS records",
		Long:  "List DNS records in a zone",
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

			if recordType != "" {
				params.WithFilter("type", recordType)
			}

			if recordName != "" {
				params.WithFilter("name", recordName)
			}

			records, err := stratusClient.DNSRecords().List(ctx, zoneID, params)
			if err != nil {
				return fmt.Errorf("failed to list DNS records: %w", err)
			}

			allRecords, err := fetchRemainingPages(records, params, allPages, func(params *stratus.QueryParams) (*stratus.ListResponse[stratus.DNSRecord], error) {
				return stratusClient.DNSRecords().List(ctx, zoneID, params)
			})
			if err != nil {
				return err
			}

			return renderOutput(allRecords, func(results []stratus.DNSRecord) error {
				return displayDNSRecordsTable(results, records.Info, allPages)
			})
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")
	cmd.Flags().StringVar(&recordType, "type", "", "filter by record type")
	cmd.Flags().StringVar(&recordName, "name", "", "filter by record name")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func displayDNSRecordsTable(records []stratus.DNSRecord, info stratus.ResultInfo, allPages bool) error {
	if len(records) == 0 {
		_, _ = os.Stdout.WriteString("No DNS records found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Type", "Name", "Content", "TTL", "Proxied", "ID")

	for _, record := range records {
		_ = table.Append(record.Type, record.Name, record.Content, formatTTL(record.TTL), formatBoolPtr(record.Proxied), record.ID)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render DNS records table: %w", err)
	}

	printPageHint(info, allPages)

	return nil
}

// formatTTL renders the automatic TTL value the way the API documents it.
func formatTTL(ttl int) string {
	if ttl == 1 {
		return "auto"
	}

	return strconv.Itoa(ttl)
}

func newDNSGetCommand() *cobra.Command {
	var zoneName string

	cmd := &cobra.Command{
		Use:   "get RECORD_ID",
		Short: "Get DNS record details",
		Long:  "Display detailed information about a specific DNS record",
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

			record, err := stratusClient.DNSRecords().Get(ctx, zoneID, args[0])
			if err != nil {
				return fmt.Errorf("failed to get DNS record: %w", err)
			}

			return renderOutput(record, displayDNSRecordDetailsTable)
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")

	return cmd
}

func displayDNSRecordDetailsTable(record *stratus.DNSRecord) error {
	displayEntityHeading("DNS record", record.Name)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Type", record.Type)
	_ = table.Append("Name", record.Name)
	_ = table.Append("Content", record.Content)
	_ = table.Append("TTL", formatTTL(record.TTL))
	_ = table.Append("Proxied", formatBoolPtr(record.Proxied))
	_ = table.Append("Proxiable", formatBool(record.Proxiable))
	_ = table.Append("Locked", formatBool(record.Locked))
	_ = table.Append("ID", record.ID)
	_ = table.Append("Zone", record.ZoneName)

	if record.Priority != nil {
		_ = table.Append("Priority", strconv.Itoa(*record.Priority))
	}

	if record.Comment != "" {
		_ = table.Append("Comment", record.Comment)
	}

	_ = table.Append("Created", formatTime(record.CreatedOn))
	_ = table.Append("Modified", formatTime(record.ModifiedOn))

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render DNS record table: %w", err)
	}

	return nil
}

func newDNSCreateCommand() *cobra.Command {
	var (
		zoneName   string
		recordType string
		recordName string
		content    string
		ttl        int
		priority   int
		proxied    bool
		comment    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a DNS record",
		Long:  "Create a new DNS record in a zone",
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

			createReq := &stratus.DNSRecordCreateRequest{
				Type:    recordType,
				Name:    recordName,
				Content: content,
				TTL:     ttl,
				Comment: comment,
			}

			if cmd.Flags().Changed("priority") {
				createReq.Priority = &priority
			}

			if cmd.Flags().Changed("proxied") {
				createReq.Proxied = &proxied
			}

			record, err := stratusClient.DNSRecords().Create(ctx, zoneID, createReq)
			if err != nil {
				return fmt.Errorf("failed to create DNS record: %w", err)
			}

			displaySuccess("created", "DNS record", record.Name)
			_, _ = fmt.Fprintf(os.Stdout, "  ID: %s\n", record.ID)
			_, _ = fmt.Fprintf(os.Stdout, "  %s %s -> %s\n", record.Type, record.Name, record.Content)

			return nil
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")
	cmd.Flags().StringVar(&recordType, "type", "", "record type (required)")
	cmd.Flags().StringVarP(&recordName, "name", "n", "", "record name (required)")
	cmd.Flags().StringVar(&content, "content", "", "record content (required)")
	cmd.Flags().IntVar(&ttl, "ttl", 1, "time to live in seconds (1 means automatic)")
	cmd.Flags().IntVar(&priority, "priority", 0, "record priority (MX and SRV)")
	cmd.Flags().BoolVar(&proxied, "proxied", false, "proxy traffic through the edge")
	cmd.Flags().StringVar(&comment, "comment", "", "record comment")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}

func newDNSUpdateCommand() *cobra.Command {
	var (
		zoneName string
		content  string
		ttl      int
		proxied  bool
		comment  string
	)

	cmd := &cobra.Command{
		Use:   "update RECORD_ID",
		Short: "Update a DNS record",
		Long:  "Update fields of an existing DNS record; unset flags are left unchanged",
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

			updateReq := &stratus.DNSRecordUpdateRequest{}

			if cmd.Flags().Changed("content") {
				updateReq.Content = &content
			}

			if cmd.Flags().Changed("ttl") {
				updateReq.TTL = &ttl
			}

			if cmd.Flags().Changed("proxied") {
				updateReq.Proxied = &proxied
			}

			if cmd.Flags().Changed("comment") {
				updateReq.Comment = &comment
			}

			record, err := stratusClient.DNSRecords().Update(ctx, zoneID, args[0], updateReq)
			if err != nil {
				return fmt.Errorf("failed to update DNS record: %w", err)
			}

			displaySuccess("updated", "DNS record", record.Name)

			return nil
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")
	cmd.Flags().StringVar(&content, "content", "", "record content")
	cmd.Flags().IntVar(&ttl, "ttl", 0, "time to live in seconds (1 means automatic)")
	cmd.Flags().BoolVar(&proxied, "proxied", false, "proxy traffic through the edge")
	cmd.Flags().StringVar(&comment, "comment", "", "record comment")

	return cmd
}

func newDNSDeleteCommand() *cobra.Command {
	var (
		zoneName string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "delete RECORD_ID",
		Short: "Delete a DNS record",
		Long:  "Delete a DNS record from a zone",
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

			if !confirmAction(fmt.Sprintf("Really delete DNS record '%s'?", args[0]), force) {
				return nil
			}

			err = stratusClient.DNSRecords().Delete(ctx, zoneID, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete DNS record: %w", err)
			}

			displaySuccess("deleted", "DNS record", args[0])

			return nil
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}

func newDNSExportCommand() *cobra.Command {
	var (
		zoneName string
		outFile  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a zone file",
		Long:  "Export all DNS records of a zone in BIND zone file format",
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

			zoneFile, err := stratusClient.DNSRecords().Export(ctx, zoneID)
			if err != nil {
				return fmt.Errorf("failed to export zone file: %w", err)
			}

			if outFile == "" {
				_, _ = os.Stdout.Write(zoneFile)

				return nil
			}

			err = os.WriteFile(outFile, zoneFile, constants.ConfigFilePerm)
			if err != nil {
				return fmt.Errorf("failed to write zone file: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Exported zone file to %s\n", outFile)

			return nil
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")
	cmd.Flags().StringVar(&outFile, "file", "", "write the zone file to a path instead of stdout")

	return cmd
}

func newDNSImportCommand() *cobra.Command {
	var (
		zoneName string
		inFile   string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import DNS records",
		Long:  "Import DNS records into a zone from a YAML or JSON file",
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

			records, err := readRecordsFile(inFile)
			if err != nil {
				return err
			}

			result, err := stratusClient.DNSRecords().Import(ctx, zoneID, records)
			if err != nil {
				return fmt.Errorf("failed to import DNS records: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Imported %d of %d records", result.RecordsAdded, result.TotalRecords)

			if result.RecordsFailed > 0 {
				_, _ = fmt.Fprintf(os.Stdout, " (%d failed)", result.RecordsFailed)
			}

			_, _ = os.Stdout.WriteString("\n")

			return nil
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")
	cmd.Flags().StringVar(&inFile, "file", "", "records file in YAML or JSON format (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// readRecordsFile loads a list of record create requests from a YAML or
// JSON file. YAML parsing covers both formats.
func readRecordsFile(path string) ([]stratus.DNSRecordCreateRequest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is a user-supplied CLI argument
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}

	var records []stratus.DNSRecordCreateRequest

	err = yaml.Unmarshal(data, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to parse records file: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoRecordsInFile)
	}

	return records, nil
}
