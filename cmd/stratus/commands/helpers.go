package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/viper"
	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/pkg/stratus"
	"gopkg.in/yaml.v3"
)

// Common static errors used throughout the commands package. Not-found
// conditions for zones, records, and buckets reuse the pkg/stratus
// sentinels.
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrTokenNotFound        = errors.New("API token not found")
	ErrRulesetNotFound      = errors.New("ruleset not found")
	ErrZoneNameRequired     = errors.New("zone name is required")
	ErrZoneRequired         = errors.New("zone is required (use --zone or target a zone)")
	ErrAccountRequired      = errors.New("account is required (use --account or target an account)")
	ErrBucketNameRequired   = errors.New("bucket name is required")
	ErrTokenNameRequired    = errors.New("token name is required")
	ErrRulesetNameRequired  = errors.New("ruleset name is required")
	ErrNoRecordsInFile      = errors.New("no records found in file")
	ErrAPITokenRequired     = errors.New("an API token or service credentials are required")
	ErrNoEndpointConfigured = errors.New("no API endpoint configured")
	ErrInvalidAuthFlags     = errors.New("--service-id and --service-secret must be used together")
)

// titleCaser renders entity names in message headings.
var titleCaser = cases.Title(language.English)

// renderOutput writes data as JSON or YAML when the --output flag asks for
// it, and otherwise calls the resource-specific table renderer.
func renderOutput[T any](data T, renderTable func(T) error) error {
	output := viper.GetString("output")
	switch output {
	case constants.FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("encoding output as JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("encoding output as YAML: %w", err)
		}

		return nil
	default:
		return renderTable(data)
	}
}

// confirmAction prompts for a y/N confirmation unless force is set. It
// returns true when the action should proceed.
func confirmAction(prompt string, force bool) bool {
	if force {
		return true
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s (y/N): ", prompt)

	var response string

	_, _ = fmt.Scanln(&response)

	if response != "y" && response != "Y" {
		_, _ = os.Stdout.WriteString("Cancelled\n")

		return false
	}

	return true
}

// fetchRemainingPages follows a first list page to the end when allPages is
// set, using the same params with an advancing page number.
func fetchRemainingPages[T any](first *stratus.ListResponse[T], params *stratus.QueryParams, allPages bool,
	fetch func(params *stratus.QueryParams) (*stratus.ListResponse[T], error),
) ([]T, error) {
	results := first.Result
	if !allPages || first.Info.TotalPages <= 1 {
		return results, nil
	}

	if params == nil {
		params = stratus.NewQueryParams()
	}

	for page := first.Info.Page + 1; page <= first.Info.TotalPages; page++ {
		params.Page = page

		more, err := fetch(params)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		results = append(results, more.Result...)
	}

	return results, nil
}

// printPageHint tells the user when more pages exist and --all was not set.
func printPageHint(info stratus.ResultInfo, allPages bool) {
	if !allPages && info.TotalPages > 1 {
		_, _ = fmt.Fprintf(os.Stdout, "\nShowing page %d of %d. Use --all to fetch all pages.\n", info.Page, info.TotalPages)
	}
}

// displaySuccess prints the standard success line for a mutation.
func displaySuccess(action, entityType, name string) {
	_, _ = fmt.Fprintf(os.Stdout, "Successfully %s %s '%s'\n", action, entityType, name)
}

// displayEntityHeading prints the "Zone: example.com" style heading above a
// detail table.
func displayEntityHeading(entityType, name string) {
	_, _ = fmt.Fprintf(os.Stdout, "%s: %s\n\n", titleCaser.String(entityType), name)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return constants.NotAvailable
	}

	return t.Format("2006-01-02 15:04:05")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return constants.NotAvailable
	}

	return formatTime(*t)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return constants.NotAvailable
	}

	return t.Format("2006-01-02")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return constants.NotAvailable
	}

	return formatDate(*t)
}

func formatBool(value bool) string {
	if value {
		return constants.BooleanTrue
	}

	return constants.BooleanFalse
}

func formatBoolPtr(value *bool) string {
	if value == nil {
		return constants.NotAvailable
	}

	return formatBool(*value)
}

// truncate shortens long free-text fields for table cells.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max-3] + "..."
}
