package commands

import (
	"context"
	"fmt"

	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// resolveZone finds a zone by ID or name. IDs are tried first because they
// are cheap and unambiguous; names go through a filtered list.
func resolveZone(ctx context.Context, stratusClient stratus.Client, nameOrID string) (*stratus.Zone, error) {
	zone, err := stratusClient.Zones().Get(ctx, nameOrID)
	if err == nil {
		return zone, nil
	}

	params := stratus.NewQueryParams()
	params.WithFilter("name", nameOrID)

	zones, err := stratusClient.Zones().List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to find zone: %w", err)
	}

	if len(zones.Result) == 0 {
		return nil, fmt.Errorf("zone '%s': %w", nameOrID, stratus.ErrZoneNotFound)
	}

	return &zones.Result[0], nil
}

// resolveAccount finds an account by ID or name.
func resolveAccount(ctx context.Context, stratusClient stratus.Client, nameOrID string) (*stratus.Account, error) {
	account, err := stratusClient.Accounts().Get(ctx, nameOrID)
	if err == nil {
		return account, nil
	}

	params := stratus.NewQueryParams()
	params.WithFilter("name", nameOrID)

	accounts, err := stratusClient.Accounts().List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if len(accounts.Result) == 0 {
		return nil, fmt.Errorf("account '%s': %w", nameOrID, ErrAccountNotFound)
	}

	return &accounts.Result[0], nil
}

// resolveToken finds an API token by ID or name.
func resolveToken(ctx context.Context, stratusClient stratus.Client, nameOrID string) (*stratus.APIToken, error) {
	token, err := stratusClient.Tokens().Get(ctx, nameOrID)
	if err == nil {
		return token, nil
	}

	tokens, err := stratusClient.Tokens().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find API token: %w", err)
	}

	for i := range tokens.Result {
		if tokens.Result[i].Name == nameOrID {
			return &tokens.Result[i], nil
		}
	}

	return nil, fmt.Errorf("API token '%s': %w", nameOrID, ErrTokenNotFound)
}

// resolveRuleset finds a ruleset within a zone by ID or name.
func resolveRuleset(ctx context.Context, stratusClient stratus.Client, zoneID, nameOrID string) (*stratus.Ruleset, error) {
	ruleset, err := stratusClient.Rulesets().Get(ctx, zoneID, nameOrID)
	if err == nil {
		return ruleset, nil
	}

	rulesets, err := stratusClient.Rulesets().List(ctx, zoneID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find ruleset: %w", err)
	}

	for i := range rulesets.Result {
		if rulesets.Result[i].Name != nameOrID {
			continue
		}

		// List responses omit the rule list, so fetch the full resource.
		full, err := stratusClient.Rulesets().Get(ctx, zoneID, rulesets.Result[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get ruleset: %w", err)
		}

		return full, nil
	}

	return nil, fmt.Errorf("ruleset '%s': %w", nameOrID, ErrRulesetNotFound)
}

// requireZoneID resolves the zone a command operates on, preferring the
// --zone flag over the targeted zone.
func requireZoneID(ctx context.Context, stratusClient stratus.Client, zoneFlag string) (string, error) {
	if zoneFlag != "" {
		zone, err := resolveZone(ctx, stratusClient, zoneFlag)
		if err != nil {
			return "", err
		}

		return zone.ID, nil
	}

	config := loadConfig()
	if config.ZoneID != "" {
		return config.ZoneID, nil
	}

	return "", ErrZoneRequired
}

// requireAccountID resolves the account a command operates on, preferring
// the --account flag over the targeted account.
func requireAccountID(ctx context.Context, stratusClient stratus.Client, accountFlag string) (string, error) {
	if accountFlag != "" {
		account, err := resolveAccount(ctx, stratusClient, accountFlag)
		if err != nil {
			return "", err
		}

		return account.ID, nil
	}

	config := loadConfig()
	if config.AccountID != "" {
		return config.AccountID, nil
	}

	return "", ErrAccountRequired
}
