package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/stratus-io/stratus-go/internal/http"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// listPage fetches one envelope-wrapped page of resources from path. It
// backs both the List methods and the ListWithPath methods the pagination
// helpers call, so every resource client pages the same way.
func listPage[T any](ctx context.Context, httpClient *http.Client, path, resource string, params *stratus.QueryParams) (*stratus.ListResponse[T], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", resource, err)
	}

	var result stratus.ListResponse[T]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing %s list response: %w", resource, err)
	}

	return &result, nil
}
