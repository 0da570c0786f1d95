package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/internal/http"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// RulesetsClient implements stratus.RulesetsClient
type RulesetsClient struct {
	httpClient *http.Client
}

// NewRulesetsClient creates a new rulesets client
func NewRulesetsClient(httpClient *http.Client) *RulesetsClient {
	return &RulesetsClient{
		httpClient: httpClient,
	}
}

// Create implements stratus.RulesetsClient.Create
func (c *RulesetsClient) Create(ctx context.Context, zoneID string, request *stratus.RulesetCreateRequest) (*stratus.Ruleset, error) {
	path := fmt.Sprintf("%s/%s/rulesets", constants.APIPathZones, zoneID)

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("creating ruleset: %w", err)
	}

	var env stratus.APIResponse[stratus.Ruleset]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing ruleset response: %w", err)
	}

	return &env.Result, nil
}

// Get implements stratus.RulesetsClient.Get
func (c *RulesetsClient) Get(ctx context.Context, zoneID, rulesetID string) (*stratus.Ruleset, error) {
	path := fmt.Sprintf("%s/%s/rulesets/%s", constants.APIPathZones, zoneID, rulesetID)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting ruleset: %w", err)
	}

	var env stratus.APIResponse[stratus.Ruleset]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing ruleset response: %w", err)
	}

	return &env.Result, nil
}

// List implements stratus.RulesetsClient.List
func (c *RulesetsClient) List(ctx context.Context, zoneID string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.Ruleset], error) {
	path := fmt.Sprintf("%s/%s/rulesets", constants.APIPathZones, zoneID)

	return c.ListWithPath(ctx, path, params)
}

// ListWithPath implements stratus.PaginationClient.ListWithPath
func (c *RulesetsClient) ListWithPath(ctx context.Context, path string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.Ruleset], error) {
	return listPage[stratus.Ruleset](ctx, c.httpClient, path, "rulesets", params)
}

// Update implements stratus.RulesetsClient.Update. The rules list is
// replaced wholesale, matching the API's replace semantics.
func (c *RulesetsClient) Update(ctx context.Context, zoneID, rulesetID string, request *stratus.RulesetUpdateRequest) (*stratus.Ruleset, error) {
	path := fmt.Sprintf("%s/%s/rulesets/%s", constants.APIPathZones, zoneID, rulesetID)

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating ruleset: %w", err)
	}

	var env stratus.APIResponse[stratus.Ruleset]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing ruleset response: %w", err)
	}

	return &env.Result, nil
}

// Delete implements stratus.RulesetsClient.Delete
func (c *RulesetsClient) Delete(ctx context.Context, zoneID, rulesetID string) error {
	path := fmt.Sprintf("%s/%s/rulesets/%s", constants.APIPathZones, zoneID, rulesetID)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting ruleset: %w", err)
	}

	return nil
}
