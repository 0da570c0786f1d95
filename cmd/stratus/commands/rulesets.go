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

// NewRulesetsCommand creates the rulesets command group.
func NewRulesetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rulesets",
		Aliases: []string{"ruleset", "firewall"},
		Short:   "Manage firewall rulesets",
		Long:    "List, create, update, and delete firewall rulesets in a zone",
	}

	cmd.AddCommand(newRulesetsListCommand())
	cmd.AddCommand(newRulesetsGetCommand())
	cmd.AddCommand(newRulesetsCreateCommand())
	cmd.AddCommand(newRulesetsUpdateCommand())
	cmd.AddCommand(newRulesetsDeleteCommand())

	return cmd
}

func newRulesetsListCommand() *cobra.Command {
	var (
		zoneName string
		phase    string
		allPages bool
		perPage  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rulesets",
		Long:  "List firewall rulesets in a zone",
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

			if phase != "" {
				params.WithFilter("phase", phase)
			}

			rulesets, err := stratusClient.Rulesets().List(ctx, zoneID, params)
			if err != nil {
				return fmt.Errorf("failed to list rulesets: %w", err)
			}

			allRulesets, err := fetchRemainingPages(rulesets, params, allPages, func(params *stratus.QueryParams) (*stratus.ListResponse[stratus.Ruleset], error) {
				return stratusClient.Rulesets().List(ctx, zoneID, params)
			})
			if err != nil {
				return err
			}

			return renderOutput(allRulesets, func(results []stratus.Ruleset) error {
				return displayRulesetsTable(results, rulesets.Info, allPages)
			})
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")
	cmd.Flags().StringVar(&phase, "phase", "", "filter by phase")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&perPage, "per-page", constants.StandardPageSize, "results per page")

	return cmd
}

func displayRulesetsTable(rulesets []stratus.Ruleset, info stratus.ResultInfo, allPages bool) error {
	if len(rulesets) == 0 {
		_, _ = os.Stdout.WriteString("No rulesets found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Kind", "Phase", "Rules", "Description", "ID")

	for _, ruleset := range rulesets {
		_ = table.Append(ruleset.Name, ruleset.Kind, ruleset.Phase,
			strconv.Itoa(len(ruleset.Rules)),
			truncate(ruleset.Description, constants.DescriptionDisplayLength),
			ruleset.ID)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render rulesets table: %w", err)
	}

	printPageHint(info, allPages)

	return nil
}

func newRulesetsGetCommand() *cobra.Command {
	var zoneName string

	cmd := &cobra.Command{
		Use:   "get RULESET_NAME_OR_ID",
		Short: "Get ruleset details",
		Long:  "Display a ruleset and its ordered rules",
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

			ruleset, err := resolveRuleset(ctx, stratusClient, zoneID, args[0])
			if err != nil {
				return err
			}

			return renderOutput(ruleset, displayRulesetDetailsTable)
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")

	return cmd
}

func displayRulesetDetailsTable(ruleset *stratus.Ruleset) error {
	displayEntityHeading("ruleset", ruleset.Name)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Name", ruleset.Name)
	_ = table.Append("ID", ruleset.ID)
	_ = table.Append("Kind", ruleset.Kind)
	_ = table.Append("Phase", ruleset.Phase)

	if ruleset.Description != "" {
		_ = table.Append("Description", ruleset.Description)
	}

	if ruleset.Version != "" {
		_ = table.Append("Version", ruleset.Version)
	}

	_ = table.Append("Last Updated", formatTimePtr(ruleset.LastUpdated))

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render ruleset table: %w", err)
	}

	if len(ruleset.Rules) == 0 {
		return nil
	}

	_, _ = os.Stdout.WriteString("\nRules (evaluated in order):\n")

	rulesTable := tablewriter.NewWriter(os.Stdout)
	rulesTable.Header("#", "Action", "Expression", "Enabled", "Description")

	for i, rule := range ruleset.Rules {
		enabled := constants.BooleanTrue
		if rule.Enabled != nil && !*rule.Enabled {
			enabled = constants.BooleanFalse
		}

		_ = rulesTable.Append(strconv.Itoa(i+1), rule.Action,
			truncate(rule.Expression, constants.ExpressionDisplayLength),
			enabled,
			truncate(rule.Description, constants.DescriptionDisplayLength))
	}

	err = rulesTable.Render()
	if err != nil {
		return fmt.Errorf("failed to render rules table: %w", err)
	}

	return nil
}

func newRulesetsCreateCommand() *cobra.Command {
	var (
		zoneName    string
		name        string
		kind        string
		phase       string
		description string
		rulesFile   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a ruleset",
		Long:  "Create a new firewall ruleset, optionally seeded with rules from a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return ErrRulesetNameRequired
			}

			stratusClient, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			zoneID, err := requireZoneID(ctx, stratusClient, zoneName)
			if err != nil {
				return err
			}

			createReq := &stratus.RulesetCreateRequest{
				Name:        name,
				Description: description,
				Kind:        kind,
				Phase:       phase,
			}

			if rulesFile != "" {
				rules, err := readRulesFile(rulesFile)
				if err != nil {
					return err
				}

				createReq.Rules = rules
			}

			ruleset, err := stratusClient.Rulesets().Create(ctx, zoneID, createReq)
			if err != nil {
				return fmt.Errorf("failed to create ruleset: %w", err)
			}

			displaySuccess("created", "ruleset", ruleset.Name)
			_, _ = fmt.Fprintf(os.Stdout, "  ID: %s\n", ruleset.ID)
			_, _ = fmt.Fprintf(os.Stdout, "  Phase: %s\n", ruleset.Phase)
			_, _ = fmt.Fprintf(os.Stdout, "  Rules: %d\n", len(ruleset.Rules))

			return nil
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")
	cmd.Flags().StringVarP(&name, "name", "n", "", "ruleset name (required)")
	cmd.Flags().StringVar(&kind, "kind", "zone", "ruleset kind")
	cmd.Flags().StringVar(&phase, "phase", "http_request_firewall_custom", "request-processing phase")
	cmd.Flags().StringVar(&description, "description", "", "ruleset description")
	cmd.Flags().StringVar(&rulesFile, "rules-file", "", "initial rules in YAML or JSON format")

	return cmd
}

func newRulesetsUpdateCommand() *cobra.Command {
	var (
		zoneName    string
		description string
		rulesFile   string
	)

	cmd := &cobra.Command{
		Use:   "update RULESET_NAME_OR_ID",
		Short: "Update a ruleset",
		Long:  "Update a ruleset's description or replace its rule list from a file",
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

			ruleset, err := resolveRuleset(ctx, stratusClient, zoneID, args[0])
			if err != nil {
				return err
			}

			// The update endpoint replaces rules wholesale, so start from
			// the current list and only swap it when a file is given.
			updateReq := &stratus.RulesetUpdateRequest{Rules: ruleset.Rules}

			if cmd.Flags().Changed("description") {
				updateReq.Description = &description
			}

			if rulesFile != "" {
				rules, err := readRulesFile(rulesFile)
				if err != nil {
					return err
				}

				updateReq.Rules = rules
			}

			updated, err := stratusClient.Rulesets().Update(ctx, zoneID, ruleset.ID, updateReq)
			if err != nil {
				return fmt.Errorf("failed to update ruleset: %w", err)
			}

			displaySuccess("updated", "ruleset", updated.Name)
			_, _ = fmt.Fprintf(os.Stdout, "  Rules: %d\n", len(updated.Rules))

			return nil
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")
	cmd.Flags().StringVar(&description, "description", "", "ruleset description")
	cmd.Flags().StringVar(&rulesFile, "rules-file", "", "replacement rules in YAML or JSON format")

	return cmd
}

func newRulesetsDeleteCommand() *cobra.Command {
	var (
		zoneName string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "delete RULESET_NAME_OR_ID",
		Short: "Delete a ruleset",
		Long:  "Delete a firewall ruleset from a zone",
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

			ruleset, err := resolveRuleset(ctx, stratusClient, zoneID, args[0])
			if err != nil {
				return err
			}

			if !confirmAction(fmt.Sprintf("Really delete ruleset '%s'?", ruleset.Name), force) {
				return nil
			}

			err = stratusClient.Rulesets().Delete(ctx, zoneID, ruleset.ID)
			if err != nil {
				return fmt.Errorf("failed to delete ruleset: %w", err)
			}

			displaySuccess("deleted", "ruleset", ruleset.Name)

			return nil
		},
	}

	cmd.Flags().StringVarP(&zoneName, "zone", "z", "", "zone name or ID")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}

// readRulesFile loads a rule list from a YAML or JSON file.
func readRulesFile(path string) ([]stratus.Rule, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is a user-supplied CLI argument
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules []stratus.Rule

	err = yaml.Unmarshal(data, &rules)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	return rules, nil
}
