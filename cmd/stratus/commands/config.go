package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stratus-io/stratus-go/internal/constants"
	"github.com/stratus-io/stratus-go/pkg/stratus"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration persisted in
// $HOME/.stratus/config.yml. Credentials are stored as written; the service
// token fields cache the last exchanged token so consecutive invocations do
// not repeat the exchange.
type Config struct {
	API           string `json:"api,omitempty"            yaml:"api,omitempty"`
	APIToken      string `json:"api_token,omitempty"      yaml:"api_token,omitempty"`
	ServiceID     string `json:"service_id,omitempty"     yaml:"service_id,omitempty"`
	ServiceSecret string `json:"service_secret,omitempty" yaml:"service_secret,omitempty"`

	// Cached service token state
	ServiceToken          string     `json:"service_token,omitempty"            yaml:"service_token,omitempty"`
	ServiceTokenExpiresAt *time.Time `json:"service_token_expires_at,omitempty" yaml:"service_token_expires_at,omitempty"`
	LastRefreshed         *time.Time `json:"last_refreshed,omitempty"           yaml:"last_refreshed,omitempty"`

	// Targeting
	Account   string `json:"account,omitempty"    yaml:"account,omitempty"`
	AccountID string `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	Zone      string `json:"zone,omitempty"       yaml:"zone,omitempty"`
	ZoneID    string `json:"zone_id,omitempty"    yaml:"zone_id,omitempty"`

	// Global settings
	Output        string `json:"output"          yaml:"output"`
	NoColor       bool   `json:"no_color"        yaml:"no_color"`
	SkipTLSVerify bool   `json:"skip_tls_verify" yaml:"skip_tls_verify"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage Stratus CLI configuration including credentials, targets, and settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			return renderOutput(maskedConfig(config), displayConfigTable)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a specific configuration value and save it to the config file",
		Args:  cobra.ExactArgs(constants.TwoArgumentsRequired),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			config := loadConfig()

			err := setConfigValue(config, key, value)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Set %s\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a specific configuration value and save the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			config := loadConfig()

			err := unsetConfigValue(config, key)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Unset %s\n", key)

			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove the configuration file including stored credentials and targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmAction("Really clear all configuration?", force) {
				return nil
			}

			configFile := configFilePath()

			err := os.Remove(configFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			_, _ = os.Stdout.WriteString("Cleared all configuration\n")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

// loadConfig builds the CLI configuration from viper, which layers the
// config file, STRATUS_* environment variables, and command-line flags.
func loadConfig() *Config {
	config := &Config{
		API:           viper.GetString("api"),
		APIToken:      viper.GetString("api_token"),
		ServiceID:     viper.GetString("service_id"),
		ServiceSecret: viper.GetString("service_secret"),
		ServiceToken:  viper.GetString("service_token"),
		Account:       viper.GetString("account"),
		AccountID:     viper.GetString("account_id"),
		Zone:          viper.GetString("zone"),
		ZoneID:        viper.GetString("zone_id"),
		Output:        viper.GetString("output"),
		NoColor:       viper.GetBool("no_color"),
		SkipTLSVerify: viper.GetBool("skip_tls_verify"),
	}

	if expiry := parseConfigTime(viper.GetString("service_token_expires_at")); expiry != nil {
		config.ServiceTokenExpiresAt = expiry
	}

	if refreshed := parseConfigTime(viper.GetString("last_refreshed")); refreshed != nil {
		config.LastRefreshed = refreshed
	}

	return config
}

func parseConfigTime(value string) *time.Time {
	if value == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}

	return &t
}

// configFilePath returns the active config file, or the default location
// when no file has been read yet.
func configFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yml"
	}

	return filepath.Join(home, ".stratus", "config.yml")
}

func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, ".stratus")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setConfigValue sets a specific configuration value by key.
func setConfigValue(config *Config, key, value string) error {
	if handler, exists := configKeyHandlers()[key]; exists {
		handler(config, value)

		return nil
	}

	return fmt.Errorf("%w: %s", stratus.ErrUnknownConfigKey, key)
}

// configKeyHandlers maps config keys to their setters.
func configKeyHandlers() map[string]func(*Config, string) {
	return map[string]func(*Config, string){
		"api":             func(c *Config, v string) { c.API = v },
		"api_token":       func(c *Config, v string) { c.APIToken = v },
		"service_id":      func(c *Config, v string) { c.ServiceID = v },
		"service_secret":  func(c *Config, v string) { c.ServiceSecret = v },
		"account":         func(c *Config, v string) { c.Account = v },
		"account_id":      func(c *Config, v string) { c.AccountID = v },
		"zone":            func(c *Config, v string) { c.Zone = v },
		"zone_id":         func(c *Config, v string) { c.ZoneID = v },
		"output":          func(c *Config, v string) { c.Output = v },
		"no_color":        func(c *Config, v string) { c.NoColor = parseBoolValue(v) },
		"skip_tls_verify": func(c *Config, v string) { c.SkipTLSVerify = parseBoolValue(v) },
	}
}

// unsetConfigValue resets a specific configuration value by key.
func unsetConfigValue(config *Config, key string) error {
	switch key {
	case "api":
		config.API = ""
	case "api_token":
		config.APIToken = ""
	case "service_id":
		config.ServiceID = ""
	case "service_secret":
		config.ServiceSecret = ""
	case "account":
		config.Account = ""
		config.AccountID = ""
	case "account_id":
		config.AccountID = ""
	case "zone":
		config.Zone = ""
		config.ZoneID = ""
	case "zone_id":
		config.ZoneID = ""
	case "output":
		config.Output = constants.FormatTable
	case "no_color":
		config.NoColor = false
	case "skip_tls_verify":
		config.SkipTLSVerify = false
	default:
		return fmt.Errorf("%w: %s", stratus.ErrUnknownConfigKey, key)
	}

	return nil
}

// parseBoolValue parses a boolean value from string.
func parseBoolValue(value string) bool {
	return value == constants.BooleanTrue || value == "1"
}

// maskedConfig returns a copy of the config with secrets replaced so it can
// be rendered in any output format.
func maskedConfig(config *Config) *Config {
	masked := *config

	if masked.APIToken != "" {
		masked.APIToken = constants.MaskedSecret
	}

	if masked.ServiceSecret != "" {
		masked.ServiceSecret = constants.MaskedSecret
	}

	if masked.ServiceToken != "" {
		masked.ServiceToken = constants.MaskedSecret
	}

	return &masked
}

func displayConfigTable(config *Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("API", valueOrNA(config.API))
	_ = table.Append("API Token", valueOrNA(config.APIToken))
	_ = table.Append("Service ID", valueOrNA(config.ServiceID))
	_ = table.Append("Service Secret", valueOrNA(config.ServiceSecret))
	_ = table.Append("Account", valueOrNA(config.Account))
	_ = table.Append("Account ID", valueOrNA(config.AccountID))
	_ = table.Append("Zone", valueOrNA(config.Zone))
	_ = table.Append("Zone ID", valueOrNA(config.ZoneID))
	_ = table.Append("Output", valueOrNA(config.Output))
	_ = table.Append("No Color", formatBool(config.NoColor))
	_ = table.Append("Skip TLS Verify", formatBool(config.SkipTLSVerify))

	if config.LastRefreshed != nil {
		_ = table.Append("Last Refreshed", formatTimePtr(config.LastRefreshed))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render config table: %w", err)
	}

	return nil
}

func valueOrNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}
