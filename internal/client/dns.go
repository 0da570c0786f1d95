package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/internal/http"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// DNSRecordsClient implements stratus.DNSRecordsClient
type DNSRecordsClient struct {
	httpClient *http.Client
}

// NewDNSRecordsClient creates a new DNS records client
func NewDNSRecordsClient(httpClient *http.Client) *DNSRecordsClient {
	return &DNSRecordsClient{
		httpClient: httpClient,
	}
}

// dnsImportRequest wraps the record list for the import endpoint.
type dnsImportRequest struct {
	Records []stratus.DNSRecordCreateRequest `json:"records"`
}

// Create implements stratus.DNSRecordsClient.Create
func (c *DNSRecordsClient) Create(ctx context.Context, zoneID string, request *stratus.DNSRecordCreateRequest) (*stratus.DNSRecord, error) {
	path := fmt.Sprintf("%s/%s/dns_records", constants.APIPathZones, zoneID)

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("creating DNS record: %w", err)
	}

	var env stratus.APIResponse[stratus.DNSRecord]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing DNS record response: %w", err)
	}

	return &env.Result, nil
}

// Get implements stratus.DNSRecordsClient.Get
func (c *DNSRecordsClient) Get(ctx context.Context, zoneID, recordID string) (*stratus.DNSRecord, error) {
	path := fmt.Sprintf("%s/%s/dns_records/%s", constants.APIPathZones, zoneID, recordID)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting DNS record: %w", err)
	}

	var env stratus.APIResponse[stratus.DNSRecord]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing DNS record response: %w", err)
	}

	return &env.Result, nil
}

// List implements stratus.DNSRecordsClient.List
func (c *DNSRecordsClient) List(ctx context.Context, zoneID string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.DNSRecord], error) {
	path := fmt.Sprintf("%s/%s/dns_records", constants.APIPathZones, zoneID)

	return c.ListWithPath(ctx, path, params)
}

// ListWithPath implements stratus.PaginationClient.ListWithPath
func (c *DNSRecordsClient) ListWithPath(ctx context.Context, path string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.DNSRecord], error) {
	return listPage[stratus.DNSRecord](ctx, c.httpClient, path, "DNS records", params)
}

// Update implements stratus.DNSRecordsClient.Update
func (c *DNSRecordsClient) Update(ctx context.Context, zoneID, recordID string, request *stratus.DNSRecordUpdateRequest) (*stratus.DNSRecord, error) {
	path := fmt.Sprintf("%s/%s/dns_records/%s", constants.APIPathZones, zoneID, recordID)

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating DNS record: %w", err)
	}

	var env stratus.APIResponse[stratus.DNSRecord]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing DNS record response: %w", err)
	}

	return &env.Result, nil
}

// Delete implements stratus.DNSRecordsClient.Delete
func (c *DNSRecordsClient) Delete(ctx context.Context, zoneID, recordID string) error {
	path := fmt.Sprintf("%s/%s/dns_records/%s", constants.APIPathZones, zoneID, recordID)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting DNS record: %w", err)
	}

	return nil
}

// Export implements stratus.DNSRecordsClient.Export. The response is the
// raw BIND zone file, not a JSON envelope.
func (c *DNSRecordsClient) Export(ctx context.Context, zoneID string) ([]byte, error) {
	path := fmt.Sprintf("%s/%s/dns_records/export", constants.APIPathZones, zoneID)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("exporting DNS records: %w", err)
	}

	return resp.Body, nil
}

// Import implements stratus.DNSRecordsClient.Import
func (c *DNSRecordsClient) Import(ctx context.Context, zoneID string, records []stratus.DNSRecordCreateRequest) (*stratus.DNSImportResult, error) {
	path := fmt.Sprintf("%s/%s/dns_records/import", constants.APIPathZones, zoneID)

	resp, err := c.httpClient.Post(ctx, path, &dnsImportRequest{Records: records})
	if err != nil {
		return nil, fmt.Errorf("importing DNS records: %w", err)
	}

	var env stratus.APIResponse[stratus.DNSImportResult]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing DNS import response: %w", err)
	}

	return &env.Result, nil
}
