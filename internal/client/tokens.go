package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/internal/http"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// TokensClient implements stratus.TokensClient
type TokensClient struct {
	httpClient *http.Client
}

// NewTokensClient creates a new API tokens client
func NewTokensClient(httpClient *http.Client) *TokensClient {
	return &TokensClient{
		httpClient: httpClient,
	}
}

// Create implements stratus.TokensClient.Create. The response carries the
// token secret in Value; it is not retrievable afterwards.
func (c *TokensClient) Create(ctx context.Context, request *stratus.TokenCreateRequest) (*stratus.APIToken, error) {
	resp, err := c.httpClient.Post(ctx, constants.APIPathTokens, request)
	if err != nil {
		return nil, fmt.Errorf("creating token: %w", err)
	}

	var env stratus.APIResponse[stratus.APIToken]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	return &env.Result, nil
}

// Get implements stratus.TokensClient.Get
func (c *TokensClient) Get(ctx context.Context, tokenID string) (*stratus.APIToken, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathTokens, tokenID)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}

	var env stratus.APIResponse[stratus.APIToken]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	return &env.Result, nil
}

// List implements stratus.TokensClient.List
func (c *TokensClient) List(ctx context.Context, params *stratus.QueryParams) (*stratus.ListResponse[stratus.APIToken], error) {
	return c.ListWithPath(ctx, constants.APIPathTokens, params)
}

// ListWithPath implements stratus.PaginationClient.ListWithPath
func (c *TokensClient) ListWithPath(ctx context.Context, path string, params *stratus.QueryParams) (*stratus.ListResponse[stratus.APIToken], error) {
	return listPage[stratus.APIToken](ctx, c.httpClient, path, "tokens", params)
}

// Update implements stratus.TokensClient.Update
func (c *TokensClient) Update(ctx context.Context, tokenID string, request *stratus.TokenUpdateRequest) (*stratus.APIToken, error) {
	path := fmt.Sprintf("%s/%s", constants.APIPathTokens, tokenID)

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating token: %w", err)
	}

	var env stratus.APIResponse[stratus.APIToken]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	return &env.Result, nil
}

// Delete implements stratus.TokensClient.Delete
func (c *TokensClient) Delete(ctx context.Context, tokenID string) error {
	path := fmt.Sprintf("%s/%s", constants.APIPathTokens, tokenID)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}

	return nil
}

// Roll implements stratus.TokensClient.Roll. Rolling invalidates the
// current secret and returns the replacement in Value.
func (c *TokensClient) Roll(ctx context.Context, tokenID string) (*stratus.APIToken, error) {
	path := fmt.Sprintf("%s/%s/roll", constants.APIPathTokens, tokenID)

	resp, err := c.httpClient.Put(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("rolling token: %w", err)
	}

	var env stratus.APIResponse[stratus.APIToken]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	return &env.Result, nil
}

// Verify implements stratus.TokensClient.Verify. It checks the credential
// the client itself is sending.
func (c *TokensClient) Verify(ctx context.Context) (*stratus.TokenVerifyResult, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathTokenVerify, nil)
	if err != nil {
		return nil, fmt.Errorf("verifying token: %w", err)
	}

	var env stratus.APIResponse[stratus.TokenVerifyResult]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("parsing token verify response: %w", err)
	}

	return &env.Result, nil
}
