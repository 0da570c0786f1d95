package client

import (
	"fmt"

	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/internal/http"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// AuditEventsClient implements stratus.AuditEventsClient.
type AuditEventsClient struct {
	*EventsClient[stratus.AuditEvent]
}

// NewAuditEventsClient creates a new audit events client.
func NewAuditEventsClient(httpClient *http.Client) *AuditEventsClient {
	return &AuditEventsClient{
		EventsClient: NewEventsClient[stratus.AuditEvent](
			httpClient,
			"audit",
			func(accountID string) string {
				return fmt.Sprintf("%s/%s/audit_events", constants.APIPathAccounts, accountID)
			},
		),
	}
}
