package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stratus-io/stratus-go/pkg/stratus"
	"github.com/stratus-io/stratus-go/pkg/stratusclient"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		apiEndpoint   string
		apiToken      string
		serviceID     string
		serviceSecret string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to Stratus",
		Long:  "Verify credentials against a Stratus API endpoint and store them in the CLI config",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get API endpoint
			if apiEndpoint == "" {
				apiEndpoint = viper.GetString("api")
			}

			if apiEndpoint == "" {
				reader := bufio.NewReader(os.Stdin)
				_, _ = os.Stdout.WriteString("API endpoint: ")
				apiEndpoint, _ = reader.ReadString('\n')
				apiEndpoint = strings.TrimSpace(apiEndpoint)
			}

			if apiEndpoint == "" {
				return stratus.ErrAPIEndpointRequired
			}

			apiEndpoint = normalizeEndpoint(apiEndpoint)

			if (serviceID == "") != (serviceSecret == "") {
				return ErrInvalidAuthFlags
			}

			// Without service credentials an API token is needed; prompt
			// for it without echoing.
			if apiToken == "" && serviceID == "" {
				apiToken = viper.GetString("api_token")
			}

			if apiToken == "" && serviceID == "" {
				_, _ = os.Stdout.WriteString("API token: ")

				byteToken, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read API token: %w", err)
				}

				apiToken = strings.TrimSpace(string(byteToken))

				_, _ = os.Stdout.WriteString("\n")
			}

			if apiToken == "" && serviceID == "" {
				return ErrAPITokenRequired
			}

			clientConfig := &stratus.Config{
				APIEndpoint:   apiEndpoint,
				APIToken:      apiToken,
				ServiceID:     serviceID,
				ServiceSecret: serviceSecret,
				SkipTLSVerify: viper.GetBool("skip_tls_verify"),
			}

			stratusClient, err := stratusclient.New(clientConfig)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			ctx := context.Background()

			verifyResult, err := stratusClient.Tokens().Verify(ctx)
			if err != nil {
				return fmt.Errorf("failed to verify credentials: %w", err)
			}

			err = persistLogin(apiEndpoint, apiToken, serviceID, serviceSecret)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Successfully logged in to %s\n", apiEndpoint)
			_, _ = fmt.Fprintf(os.Stdout, "Token status: %s\n", verifyResult.Status)

			if verifyResult.ExpiresOn != nil {
				_, _ = fmt.Fprintf(os.Stdout, "Token expires: %s\n", verifyResult.ExpiresOn.Format(time.RFC3339))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&apiEndpoint, "api", "a", "", "API endpoint URL")
	cmd.Flags().StringVarP(&apiToken, "token", "t", "", "API token")
	cmd.Flags().StringVar(&serviceID, "service-id", "", "service token ID")
	cmd.Flags().StringVar(&serviceSecret, "service-secret", "", "service token secret")

	return cmd
}

// persistLogin saves verified credentials, replacing whichever auth method
// was stored before.
func persistLogin(apiEndpoint, apiToken, serviceID, serviceSecret string) error {
	config := loadConfig()

	config.API = apiEndpoint
	config.APIToken = apiToken
	config.ServiceID = serviceID
	config.ServiceSecret = serviceSecret
	config.ServiceToken = ""
	config.ServiceTokenExpiresAt = nil

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	return nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from Stratus",
		Long:  "Clear stored credentials, keeping the endpoint and targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			config.APIToken = ""
			config.ServiceID = ""
			config.ServiceSecret = ""
			config.ServiceToken = ""
			config.ServiceTokenExpiresAt = nil

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			_, _ = os.Stdout.WriteString("Successfully logged out\n")

			return nil
		},
	}
}
