package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/internal/http"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// BucketsClient implements stratus.BucketsClient
type BucketsClient struct {
	httpClient *http.Client
}

// NewBucketsClient creates a new storage buckets client
func NewBucketsClient(httpClient *http.Client) *BucketsClient {
	return &BucketsClient{
		httpClient: httpClient,
	}
}

// Create implements stratus.BucketsClient.Create
func (c *BucketsClient) Create(ctx context.Context, accountID string, request *stratus.BucketCreateRequest) (*stratus.Bucket, error) {
	path := fmt.Sprintf("%s/%s/storage/buckets", constants.APIPathAccounts, accountID)

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	var env stratus.APIResponse[stratus.Bucket]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing bucket response: %w", err)
	}

	return &env.Result, nil
}

// Get implements stratus.BucketsClient.Get. Buckets are addressed by name,
// not by a separate ID.
func (c *BucketsClient) Get(ctx context.Context, accountID, name string) (*stratus.Bucket, error) {
	path := fmt.Sprintf("%s/%s/storage/buckets/%s", constants.APIPathAccounts, accountID, name)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting bucket: %w", err)
	}

	var env stratus.APIResponse[stratus.Bucket]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing bucket response: %w", err)
	}

	return &env.Result, nil
}

// List implements stratus.BucketsClient.List
func (c *BucketsClient) List(ctx context.Context, accountID string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.Bucket], error) {
	path := fmt.Sprintf("%s/%s/storage/buckets", constants.APIPathAccounts, accountID)

	return c.ListWithPath(ctx, path, params)
}

// ListWithPath implements stratus.PaginationClient.ListWithPath
func (c *BucketsClient) ListWithPath(ctx context.Context, path string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.Bucket], error) {
	return listPage[stratus.Bucket](ctx, c.httpClient, path, "buckets", params)
}

// Delete implements stratus.BucketsClient.Delete
func (c *BucketsClient) Delete(ctx context.Context, accountID, name string) error {
	path := fmt.Sprintf("%s/%s/storage/buckets/%s", constants.APIPathAccounts, accountID, name)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting bucket: %w", err)
	}

	return nil
}
