package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/internal/http"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// ZonesClient implements stratus.ZonesClient
type ZonesClient struct {
	httpClient *http.Client
}

// NewZonesClient creates a new zones client
func NewZonesClient(httpClient *http.Client) *ZonesClient {
	return &ZonesClient{
		httpClient: httpClient,
	}
}

// Create implements stratus.ZonesClient.Create
func (c *ZonesClient) Create(ctx context.Context, request *stratus.ZoneCreateRequest) (*stratus.Zone, error) {
	resp, err := c.httpClient.Post(ctx, constants.APIPathZones, request)
	if err != nil {
		return nil, fmt.Errorf("creating zone: %w", err)
	}

	var env stratus.APIResponse[stratus.Zone]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing zone response: %w", err)
	}

	return &env.Result, nil
}

// Get implements stratus.ZonesClient.Get
func (c *ZonesClient) Get(ctx context.Context, zoneID string) (*stratus.Zone, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathZones, zoneID)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting zone: %w", err)
	}

	var env stratus.APIResponse[stratus.Zone]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing zone response: %w", err)
	}

	return &env.Result, nil
}

// List implements stratus.ZonesClient.List
func (c *ZonesClient) List(ctx context.Context, params *stratus.QueryParams) (*stratus.ListResponse[stratus.Zone], error) {
	return c.ListWithPath(ctx, constants.APIPathZones, params)
}

// ListWithPath implements stratus.PaginationClient.ListWithPath
func (c *ZonesClient) ListWithPath(ctx context.Context, path string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.Zone], error) {
	return listPage[stratus.Zone](ctx, c.httpClient, path, "zones", params)
}

// Update implements stratus.ZonesClient.Update
func (c *ZonesClient) Update(ctx context.Context, zoneID string, request *stratus.ZoneUpdateRequest) (*stratus.Zone, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathZones, zoneID)

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating zone: %w", err)
	}

	var env stratus.APIResponse[stratus.Zone]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing zone response: %w", err)
	}

	return &env.Result, nil
}

// Delete implements stratus.ZonesClient.Delete
func (c *ZonesClient) Delete(ctx context.Context, zoneID string) error {
	path := fmt.Sprintf("%s/%s", constants.APIPathZones, zoneID)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting zone: %w", err)
	}

	return nil
}

// Pause implements stratus.ZonesClient.Pause
func (c *ZonesClient) Pause(ctx context.Context, zoneID string) (*stratus.Zone, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathZones, zoneID)
	paused := true

	resp, err := c.httpClient.Patch(ctx, path, &stratus.ZoneUpdateRequest{Paused: &paused})
	if err != nil {
		return nil, fmt.Errorf("pausing zone: %w", err)
	}

	var env stratus.APIResponse[stratus.Zone]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing zone response: %w", err)
	}

	return &env.Result, nil
}

// Unpause implements stratus.ZonesClient.Unpause
func (c *ZonesClient) Unpause(ctx context.Context, zoneID string) (*stratus.Zone, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathZones, zoneID)
	paused := false

	resp, err := c.httpClient.Patch(ctx, path, &stratus.ZoneUpdateRequest{Paused: &paused})
	if err != nil {
		return nil, fmt.Errorf("unpausing zone: %w", err)
	}

	var env stratus.APIResponse[stratus.Zone]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing zone response: %w", err)
	}

	return &env.Result, nil
}

// PurgeCache implements stratus.ZonesClient.PurgeCache
func (c *ZonesClient) PurgeCache(ctx context.Context, zoneID string, request *stratus.ZonePurgeRequest) (*stratus.ZonePurgeResult, error) {
	path := fmt.Sprintf("%s/%s/purge_cache", constants.APIPathZones, zoneID)

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("purging zone cache: %w", err)
	}

	var env stratus.APIResponse[stratus.ZonePurgeResult]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing purge response: %w", err)
	}

	return &env.Result, nil
}
