package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/internal/http"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// AccountsClient implements stratus.AccountsClient
type AccountsClient struct {
	httpClient *http.Client
}

// NewAccountsClient creates a new accounts client
func NewAccountsClient(httpClient *http.Client) *AccountsClient {
	return &AccountsClient{
		httpClient: httpClient,
	}
}

// Get implements stratus.AccountsClient.Get
func (c *AccountsClient) Get(ctx context.Context, accountID string) (*stratus.Account, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathAccounts, accountID)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}

	var env stratus.APIResponse[stratus.Account]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing account response: %w", err)
	}

	return &env.Result, nil
}

// List implements stratus.AccountsClient.List
func (c *AccountsClient) List(ctx context.Context, params *stratus.QueryParams) (*stratus.ListResponse[stratus.Account], error) {
	return c.ListWithPath(ctx, constants.APIPathAccounts, params)
}

// ListWithPath implements stratus.PaginationClient.ListWithPath
func (c *AccountsClient) ListWithPath(ctx context.Context, path string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.Account], error) {
	return listPage[stratus.Account](ctx, c.httpClient, path, "accounts", params)
}

// Update implements stratus.AccountsClient.Update
func (c *AccountsClient) Update(ctx context.Context, accountID string, request *stratus.AccountUpdateRequest) (*stratus.Account, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathAccounts, accountID)

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating account: %w", err)
	}

	var env stratus.APIResponse[stratus.Account]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing account response: %w", err)
	}

	return &env.Result, nil
}
