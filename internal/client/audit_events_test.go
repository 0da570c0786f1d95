package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratus-io/stratus-go/pkg/stratus"
)

func TestAuditEventsClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/accounts/account-id/audit_events/event-id", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		event := stratus.AuditEvent{
			ID:     "event-id",
			Action: stratus.AuditEventAction{Type: "token_create", Result: true},
			Actor:  stratus.AuditEventActor{ID: "user-id", Email: "admin@example.com", Type: "user"},
			Resource: stratus.AuditEventResource{
				ID:   "token-id",
				Type: "account.token",
			},
			When: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		}

		_ = json.NewEncoder(w).Encode(successEnvelope(event))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	event, err := client.AuditEvents().Get(context.Background(), "account-id", "event-id")
	require.NoError(t, err)
	assert.Equal(t, "event-id", event.ID)
	assert.Equal(t, "token_create", event.Action.Type)
	assert.True(t, event.Action.Result)
	assert.Equal(t, "admin@example.com", event.Actor.Email)
	assert.Equal(t, "account.token", event.Resource.Type)
}

func TestAuditEventsClient_Get_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(errorEnvelope(stratus.ErrorCodeNotFound, "Event not found"))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	event, err := client.AuditEvents().Get(context.Background(), "account-id", "missing")
	require.Error(t, err)
	assert.Nil(t, event)
	assert.Contains(t, err.Error(), "getting audit event")
}

func TestAuditEventsClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/accounts/account-id/audit_events", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "zone_delete", r.URL.Query().Get("action.type"))
		assert.Equal(t, "25", r.URL.Query().Get("per_page"))

		events := []stratus.AuditEvent{
			{ID: "event-1", Action: stratus.AuditEventAction{Type: "zone_delete", Result: true}},
			{ID: "event-2", Action: stratus.AuditEventAction{Type: "zone_delete", Result: false}},
		}

		_ = json.NewEncoder(w).Encode(listEnvelope(events, 1, 25, 2, 2))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	params := stratus.NewQueryParams().WithPerPage(25).WithFilter("action.type", "zone_delete")
	result, err := client.AuditEvents().List(context.Background(), "account-id", params)

	require.NoError(t, err)
	assert.Len(t, result.Result, 2)
	assert.Equal(t, "zone_delete", result.Result[0].Action.Type)
	assert.False(t, result.Result[1].Action.Result)
}

func TestAuditEventsClient_ListWithPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/accounts/account-id/audit_events", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("page"))

		events := []stratus.AuditEvent{
			{ID: "event-7", Action: stratus.AuditEventAction{Type: "record_update", Result: true}},
		}

		_ = json.NewEncoder(w).Encode(listEnvelope(events, 3, 1, 1, 3))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	params := stratus.NewQueryParams().WithPage(3)
	result, err := client.AuditEvents().ListWithPath(context.Background(), "/v4/accounts/account-id/audit_events", params)

	require.NoError(t, err)
	assert.Len(t, result.Result, 1)
	assert.Equal(t, 3, result.Info.Page)
}
