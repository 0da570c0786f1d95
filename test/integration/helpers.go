//go:build integration
// +build integration

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIEndpoint string
	APIToken    string
	AccountID   string
	StratusPath string
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIEndpoint: os.Getenv("STRATUS_TEST_API"),
		APIToken:    os.Getenv("STRATUS_TEST_TOKEN"),
		AccountID:   os.Getenv("STRATUS_TEST_ACCOUNT"),
		StratusPath: getStratusPath(),
		Verbose:     os.Getenv("STRATUS_TEST_VERBOSE") == "true",
	}
}

// getStratusPath determines the path to the stratus binary
func getStratusPath() string {
	if path := os.Getenv("STRATUS_BINARY_PATH"); path != "" {
		return path
	}

	// Try common locations
	candidates := []string{
		"../../stratus",
		"./stratus",
		"../stratus",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "stratus" // Fallback to PATH
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	if config.APIEndpoint == "" {
		t.Skip("STRATUS_TEST_API not set, skipping integration test")
	}

	if config.APIToken == "" {
		t.Skip("STRATUS_TEST_TOKEN not set, skipping integration test")
	}

	if _, err := os.Stat(config.StratusPath); os.IsNotExist(err) {
		t.Skipf("stratus binary not found at %s, skipping integration test", config.StratusPath)
	}
}

// CommandRunner provides utilities for running stratus commands
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a new command runner with an isolated config file
// so tests never touch the developer's ~/.stratus directory.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a stratus command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	fullArgs := append(runner.globalFlags(), args...)
	cmd := exec.Command(runner.config.StratusPath, fullArgs...)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.StratusPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunWithInput executes a stratus command with stdin input
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	fullArgs := append(runner.globalFlags(), args...)
	cmd := exec.Command(runner.config.StratusPath, fullArgs...)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)

	if runner.config.Verbose {
		runner.t.Logf("Running with input: %s %s", runner.config.StratusPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// globalFlags returns the flags passed to every invocation: the isolated
// config file plus the endpoint and token under test.
func (runner *CommandRunner) globalFlags() []string {
	return []string{
		"--config", runner.configFile,
		"--api", runner.config.APIEndpoint,
		"--token", runner.config.APIToken,
	}
}

// TargetAccount targets the configured test account
func (runner *CommandRunner) TargetAccount() error {
	if runner.config.AccountID == "" {
		return fmt.Errorf("STRATUS_TEST_ACCOUNT not set")
	}

	_, stderr, err := runner.Run("target", "--account", runner.config.AccountID)
	if err != nil {
		return fmt.Errorf("failed to target account: %s", stderr)
	}
	return nil
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// CleanupResource attempts to delete a test resource
func (runner *CommandRunner) CleanupResource(resourceType, name string) {
	var args []string
	switch resourceType {
	case "zone":
		args = []string{"zones", "delete", name, "--force"}
	case "bucket":
		args = []string{"buckets", "delete", name, "--force"}
	case "token":
		args = []string{"tokens", "delete", name, "--force"}
	default:
		runner.t.Logf("Unknown resource type for cleanup: %s", resourceType)
		return
	}

	stdout, stderr, err := runner.Run(args...)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", resourceType, name, stdout, stderr)
	}
}

// CleanupRecord attempts to delete a test DNS record within a zone
func (runner *CommandRunner) CleanupRecord(zone, recordID string) {
	stdout, stderr, err := runner.Run("dns", "delete", recordID, "--zone", zone, "--force")
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for record %s: %s\nStderr: %s", recordID, stdout, stderr)
	}
}

// WaitForCondition waits for a condition to be met with timeout
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	// Basic JSON validation
	output = strings.TrimSpace(output)
	if !strings.HasPrefix(output, "{") && !strings.HasPrefix(output, "[") {
		t.Errorf("Output does not appear to be JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	// Basic YAML validation
	output = strings.TrimSpace(output)
	if strings.Contains(output, "---") || strings.Contains(output, ":") {
		return // Looks like YAML
	}
	t.Errorf("Output does not appear to be YAML: %s", output)
}
