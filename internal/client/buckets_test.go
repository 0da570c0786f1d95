package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratus-io/stratus-go/pkg/stratus"
)

func TestBucketsClient_Create(t *testing.T) {
	tests := []TestCreateOperation[stratus.BucketCreateRequest, stratus.Bucket]{
		{
			Name: "creates a bucket",
			Request: &stratus.BucketCreateRequest{
				Name:         "media-assets",
				LocationHint: "weur",
			},
			ExpectedPath: "/v4/accounts/account-id/storage/buckets",
			StatusCode:   http.StatusCreated,
			Response: successEnvelope(stratus.Bucket{
				Name:     "media-assets",
				Location: "weur",
			}),
		},
		{
			Name: "rejects a duplicate name",
			Request: &stratus.BucketCreateRequest{
				Name: "media-assets",
			},
			ExpectedPath: "/v4/accounts/account-id/storage/buckets",
			StatusCode:   http.StatusConflict,
			Response:     errorEnvelope(stratus.ErrorCodeBadRequest, "bucket already exists"),
			WantErr:      true,
			ErrMessage:   "creating bucket",
		},
	}

	RunCreateTests(t, tests, func(c *Client) func(context.Context, *stratus.BucketCreateRequest) (*stratus.Bucket, error) {
		return func(ctx context.Context, req *stratus.BucketCreateRequest) (*stratus.Bucket, error) {
			return c.Buckets().Create(ctx, "account-id", req)
		}
	})
}

func TestBucketsClient_Get(t *testing.T) {
	tests := []TestGetOperation[stratus.Bucket]{
		{
			Name:         "gets a bucket by name",
			ID:           "media-assets",
			ExpectedPath: "/v4/accounts/account-id/storage/buckets/media-assets",
			StatusCode:   http.StatusOK,
			Response: &stratus.Bucket{
				Name:     "media-assets",
				Location: "weur",
			},
		},
		{
			Name:         "returns not found",
			ID:           "missing",
			ExpectedPath: "/v4/accounts/account-id/storage/buckets/missing",
			StatusCode:   http.StatusNotFound,
			WantErr:      true,
			ErrMessage:   "getting bucket",
		},
	}

	RunGetTests(t, tests, func(c *Client) func(context.Context, string) (*stratus.Bucket, error) {
		return func(ctx context.Context, name string) (*stratus.Bucket, error) {
			return c.Buckets().Get(ctx, "account-id", name)
		}
	})
}

func TestBucketsClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/accounts/account-id/storage/buckets", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "2", r.URL.Query().Get("page"))

		buckets := []stratus.Bucket{
			{Name: "media-assets", Location: "weur"},
			{Name: "backups", Location: "enam"},
		}

		_ = json.NewEncoder(w).Encode(listEnvelope(buckets, 2, 2, 2, 4))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	params := stratus.NewQueryParams().WithPage(2).WithPerPage(2)
	result, err := client.Buckets().List(context.Background(), "account-id", params)

	require.NoError(t, err)
	assert.Len(t, result.Result, 2)
	assert.Equal(t, "backups", result.Result[1].Name)
	assert.Equal(t, 4, result.Info.TotalCount)
	assert.Equal(t, 2, result.Info.TotalPages)
}

func TestBucketsClient_Delete(t *testing.T) {
	tests := []TestDeleteOperation{
		{
			Name:         "deletes a bucket",
			ID:           "media-assets",
			ExpectedPath: "/v4/accounts/account-id/storage/buckets/media-assets",
			StatusCode:   http.StatusOK,
		},
		{
			Name:         "returns not found",
			ID:           "missing",
			ExpectedPath: "/v4/accounts/account-id/storage/buckets/missing",
			StatusCode:   http.StatusNotFound,
			WantErr:      true,
			ErrMessage:   "deleting bucket",
		},
	}

	RunDeleteTests(t, tests, func(c *Client) func(context.Context, string) error {
		return func(ctx context.Context, name string) error {
			return c.Buckets().Delete(ctx, "account-id", name)
		}
	})
}
