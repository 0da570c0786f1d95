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

// NewBucketsCommand creates the buckets command group.
func NewBucketsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "buckets",
		Aliases: []string{"bucket", "storage"},
		Short:   "Manage storage buckets",
		Long:    "List, create, and delete S3-compatible storage buckets in an account",
	}

	cmd.AddCommand(newBucketsListCommand())
	cmd.AddCommand(newBucketsGetCommand())
	cmd.AddCommand(newBucketsCreateCommand())
	cmd.AddCommand(newBucketsDeleteCommand())

	return cmd
}

func newBucketsListCommand() *cobra.Command {
	var (
		accountName string
		allPages    bool
		perPage     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List buckets",
		Long:  "List storage buckets in an account",
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

			buckets, err := stratusClient.Buckets().List(ctx, accountID, params)
			if err != nil {
				return fmt.Errorf("failed to list buckets: %w", err)
			}

			allBuckets, err := fetchRemainingPages(buckets, params, allPages, func(params *stratus.QueryParams) (*stratus.ListResponse[stratus.Bucket], error) {
				return stratusClient.Buckets().List(ctx, accountID, params)
			})
			if err != nil {
				return err
			}

			return renderOutput(allBuckets, func(results []stratus.Bucket) error {
				return displayBucketsTable(results, buckets.Info, allPages)
			})
		},
	}

	cmd.Flags().StringVarP(&accountName, "account", "A", "", "account name or ID")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func displayBucketsTable(buckets []stratus.Bucket, info stratus.ResultInfo, allPages bool) error {
	if len(buckets) == 0 {
		_, _ = os.Stdout.WriteString("No buckets found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Location", "Storage Class", "Created")

	for _, bucket := range buckets {
		_ = table.Append(bucket.Name, valueOrNA(bucket.Location), valueOrNA(bucket.StorageClass), formatDate(bucket.CreationDate))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render buckets table: %w", err)
	}

	printPageHint(info, allPages)

	return nil
}

func newBucketsGetCommand() *cobra.Command {
	var accountName string

	cmd := &cobra.Command{
		Use:   "get BUCKET_NAME",
		Short: "Get bucket details",
		Long:  "Display detailed information about a specific storage bucket",
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

			bucket, err := stratusClient.Buckets().Get(ctx, accountID, args[0])
			if err != nil {
				return fmt.Errorf("failed to get bucket: %w", err)
			}

			return renderOutput(bucket, displayBucketDetailsTable)
		},
	}

	cmd.Flags().StringVarP(&accountName, "account", "A", "", "account name or ID")

	return cmd
}

func displayBucketDetailsTable(bucket *stratus.Bucket) error {
	displayEntityHeading("bucket", bucket.Name)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Name", bucket.Name)
	_ = table.Append("Location", valueOrNA(bucket.Location))
	_ = table.Append("Storage Class", valueOrNA(bucket.StorageClass))
	_ = table.Append("Created", formatTime(bucket.CreationDate))

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render bucket table: %w", err)
	}

	return nil
}

func newBucketsCreateCommand() *cobra.Command {
	var (
		accountName  string
		name         string
		location     string
		storageClass string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a bucket",
		Long:  "Create a new storage bucket in an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return ErrBucketNameRequired
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

			createReq := &stratus.BucketCreateRequest{
				Name:         name,
				LocationHint: location,
				StorageClass: storageClass,
			}

			bucket, err := stratusClient.Buckets().Create(ctx, accountID, createReq)
			if err != nil {
				return fmt.Errorf("failed to create bucket: %w", err)
			}

			displaySuccess("created", "bucket", bucket.Name)

			if bucket.Location != "" {
				_, _ = fmt.Fprintf(os.Stdout, "  Location: %s\n", bucket.Location)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&accountName, "account", "A", "", "account name or ID")
	cmd.Flags().StringVarP(&name, "name", "n", "", "bucket name (required)")
	cmd.Flags().StringVar(&location, "location", "", "placement region hint")
	cmd.Flags().StringVar(&storageClass, "storage-class", "", "default storage class")

	return cmd
}

func newBucketsDeleteCommand() *cobra.Command {
	var (
		accountName string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "delete BUCKET_NAME",
		Short: "Delete a bucket",
		Long:  "Delete an empty storage bucket from an account",
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

			if !confirmAction(fmt.Sprintf("Really delete bucket '%s'?", args[0]), force) {
				return nil
			}

			err = stratusClient.Buckets().Delete(ctx, accountID, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete bucket: %w", err)
			}

			displaySuccess("deleted", "bucket", args[0])

			return nil
		},
	}

	cmd.Flags().StringVarP(&accountName, "account", "A", "", "account name or ID")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}
