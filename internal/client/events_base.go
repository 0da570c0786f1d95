package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stratus-io/stratus-go/internal/http"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// Event represents a generic event log entry interface.
type Event interface {
	stratus.AuditEvent | stratus.SecurityEvent
}

// EventsClient provides a generic client for read-only event logs. Events
// live under a parent resource (an account or a zone), so every call takes
// the parent ID and scopePath builds the collection path from it.
type EventsClient[T Event] struct {
	httpClient *http.Client
	eventType  string
	scopePath  func(scopeID string) string
}

// NewEventsClient creates a new generic events client.
func NewEventsClient[T Event](httpClient *http.Client, eventType string, scopePath func(string) string) *EventsClient[T] {
	return &EventsClient[T]{
		httpClient: httpClient,
		eventType:  eventType,
		scopePath:  scopePath,
	}
}

// Get retrieves a specific event by ID.
func (c *EventsClient[T]) Get(ctx context.Context, scopeID, eventID string) (*T, error) {
	path := c.scopePath(scopeID) + "/" + eventID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting %s event: %w", c.eventType, err)
	}

	var env stratus.APIResponse[T]

	err = json.Unmarshal(resp.Body, &env)
	if err != nil {
		return nil, fmt.Errorf("parsing %s event response: %w", c.eventType, err)
	}

	return &env.Result, nil
}

// List retrieves a page of events for the scope.
func (c *EventsClient[T]) List(ctx context.Context, scopeID string, params *stratus.QueryParams) (*stratus.ListResponse[T], error) {
	return c.ListWithPath(ctx, c.scopePath(scopeID), params)
}

// ListWithPath implements stratus.PaginationClient.ListWithPath
func (c *EventsClient[T]) ListWithPath(ctx context.Context, path string, params *stratus.QueryParams) (*stratus.ListResponse[T], error) {
	return listPage[T](ctx, c.httpClient, path, c.eventType+" events", params)
}
