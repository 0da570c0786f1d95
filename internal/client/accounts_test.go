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

func TestAccountsClient_Get(t *testing.T) {
	tests := []TestGetOperation[stratus.Account]{
		{
			Name:         "gets an account",
			ID:           "account-id",
			ExpectedPath: "/v4/accounts/account-id",
			StatusCode:   http.StatusOK,
			Response: &stratus.Account{
				ID:   "account-id",
				Name: "Example Org",
				Type: "standard",
			},
		},
		{
			Name:         "returns not found",
			ID:           "missing",
			ExpectedPath: "/v4/accounts/missing",
			StatusCode:   http.StatusNotFound,
			WantErr:      true,
			ErrMessage:   "getting account",
		},
	}

	RunGetTests(t, tests, func(c *Client) func(context.Context, string) (*stratus.Account, error) {
		return func(ctx context.Context, id string) (*stratus.Account, error) {
			return c.Accounts().Get(ctx, id)
		}
	})
}

func TestAccountsClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/accounts", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "name", r.URL.Query().Get("order"))
		assert.Equal(t, "asc", r.URL.Query().Get("direction"))

		accounts := []stratus.Account{
			{ID: "account-1", Name: "Alpha Org"},
			{ID: "account-2", Name: "Beta Org"},
		}

		_ = json.NewEncoder(w).Encode(listEnvelope(accounts, 1, 20, 2, 2))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	params := stratus.NewQueryParams().WithOrder("name").WithDirection("asc")
	result, err := client.Accounts().List(context.Background(), params)

	require.NoError(t, err)
	assert.Len(t, result.Result, 2)
	assert.Equal(t, "Alpha Org", result.Result[0].Name)
}

func TestAccountsClient_Update(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/accounts/account-id", r.URL.Path)
		assert.Equal(t, "PATCH", r.Method)

		var req stratus.AccountUpdateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		require.NotNil(t, req.Name)
		assert.Equal(t, "Renamed Org", *req.Name)
		require.NotNil(t, req.Settings)
		assert.True(t, req.Settings.EnforceTwoFactor)

		account := stratus.Account{
			ID:       "account-id",
			Name:     *req.Name,
			Settings: req.Settings,
		}

		_ = json.NewEncoder(w).Encode(successEnvelope(account))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	account, err := client.Accounts().Update(context.Background(), "account-id", &stratus.AccountUpdateRequest{
		Name:     StringPtr("Renamed Org"),
		Settings: &stratus.AccountSettings{EnforceTwoFactor: true},
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed Org", account.Name)
	require.NotNil(t, account.Settings)
	assert.True(t, account.Settings.EnforceTwoFactor)
}
