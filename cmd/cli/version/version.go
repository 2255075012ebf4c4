package version

import (
	"runtime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gridqueue/gridbroker/cmd/util/output"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"Version"`
	GoVersion string `json:"GoVersion"`
	Platform  string `json:"Platform"`
}

var columns = []output.TableColumn[BuildInfo]{
	{ColumnConfig: table.ColumnConfig{Name: "version"}, Value: func(b BuildInfo) string { return b.Version }},
	{ColumnConfig: table.ColumnConfig{Name: "go version"}, Value: func(b BuildInfo) string { return b.GoVersion }},
	{ColumnConfig: table.ColumnConfig{Name: "platform"}, Value: func(b BuildInfo) string { return b.Platform }},
}

func NewCmd(buildVersion string) *cobra.Command {
	opts := output.OutputOptions{Format: output.TableFormat}
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the broker version",
		Args:  cobra.NoArgs,
		// the version does not need a configuration
		PersistentPreRun: func(*cobra.Command, []string) {},
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := BuildInfo{
				Version:   buildVersion,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			if info.Version == "" {
				info.Version = "devel"
			}
			return output.OutputOne(cmd, columns, opts, info)
		},
	}
	versionCmd.Flags().AddFlagSet(output.Flags("version-output", &opts))
	return versionCmd
}
