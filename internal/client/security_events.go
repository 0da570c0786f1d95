package client

import (
	"fmt"

	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/internal/http"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

// SecurityEventsClient implements stratus.SecurityEventsClient.
type SecurityEventsClient struct {
	*EventsClient[stratus.SecurityEvent]
}

// NewSecurityEventsClient creates a new security events client.
func NewSecurityEventsClient(httpClient *http.Client) *SecurityEventsClient {
	return &SecurityEventsClient{
		EventsClient: NewEventsClient[stratus.SecurityEvent](
			httpClient,
			"security",
			func(zoneID string) string {
				return fmt.Sprintf("%s/%s/security/events", constants.APIPathZones, zoneID)
			},
		),
	}
}
