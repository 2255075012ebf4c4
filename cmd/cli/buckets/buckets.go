package buckets

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/gridqueue/gridbroker/cmd/util"
	"github.com/gridqueue/gridbroker/cmd/util/output"
	"github.com/gridqueue/gridbroker/pkg/models"
)

var columns = []output.TableColumn[models.Bucket]{
	{
		ColumnConfig: table.ColumnConfig{Name: "id", Align: text.AlignRight},
		Value:        func(b models.Bucket) string { return strconv.FormatInt(b.ID, 10) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "waiting", Align: text.AlignRight},
		Value:        func(b models.Bucket) string { return strconv.Itoa(b.Counter) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "priority", Align: text.AlignRight},
		Value:        func(b models.Bucket) string { return strconv.Itoa(b.Priority) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "ttl", Align: text.AlignRight},
		Value:        func(b models.Bucket) string { return strconv.FormatInt(b.TTL, 10) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "cores", Align: text.AlignRight},
		Value:        func(b models.Bucket) string { return strconv.Itoa(b.CPUCores) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "packages", WidthMax: 60},
		Value:        func(b models.Bucket) string { return strings.Join(b.Packages, ",") },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "sites"},
		Value:        func(b models.Bucket) string { return strings.Join(b.Sites, ",") },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "partition"},
		Value:        func(b models.Bucket) string { return b.Partition },
	},
}

func NewCmd() *cobra.Command {
	opts := output.OutputOptions{Format: output.TableFormat}
	bucketsCmd := &cobra.Command{
		Use:   "buckets",
		Short: "List the capability buckets in ranking order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			n, err := util.NewNode(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := n.Close(cmd.Context()); err == nil {
					err = closeErr
				}
			}()

			buckets, err := n.Store.ListBuckets(cmd.Context())
			if err != nil {
				return err
			}
			return output.Output(cmd, columns, opts, buckets)
		},
	}
	bucketsCmd.Flags().AddFlagSet(output.Flags("buckets-output", &opts))
	return bucketsCmd
}
