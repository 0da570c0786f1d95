package commands

import (
	"fmt"
	"os"
	"runtime"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// VersionInfo carries the build metadata stamped in at link time.
type VersionInfo struct {
	Version   string `json:"version"    yaml:"version"`
	Commit    string `json:"commit"     yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the CLI version, commit, and build date",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version:   version,
				Commit:    commit,
				BuildDate: date,
				GoVersion: runtime.Version(),
			}

			return renderOutput(info, displayVersionTable)
		},
	}

	return cmd
}

func displayVersionTable(info VersionInfo) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Version", info.Version)
	_ = table.Append("Commit", info.Commit)
	_ = table.Append("Build Date", info.BuildDate)
	_ = table.Append("Go Version", info.GoVersion)

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render version table: %w", err)
	}

	return nil
}
