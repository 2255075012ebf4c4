package job

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gridqueue/gridbroker/cmd/util"
	"github.com/gridqueue/gridbroker/cmd/util/output"
	"github.com/gridqueue/gridbroker/pkg/models"
)

type description struct {
	Job models.Job           `json:"Job"`
	Log []models.JobLogEntry `json:"Log"`
}

var logColumns = []output.TableColumn[models.JobLogEntry]{
	{
		ColumnConfig: table.ColumnConfig{Name: "time"},
		Value:        func(e models.JobLogEntry) string { return e.Time.UTC().Format(time.RFC3339) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "action"},
		Value:        func(e models.JobLogEntry) string { return e.Action },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "message", WidthMax: 100},
		Value:        func(e models.JobLogEntry) string { return e.Message },
	},
}

func newDescribeCmd() *cobra.Command {
	opts := output.OutputOptions{Format: output.TableFormat}
	describeCmd := &cobra.Command{
		Use:   "describe JOBID",
		Short: "Show a job and its trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			n, err := util.NewNode(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := n.Close(cmd.Context()); err == nil {
					err = closeErr
				}
			}()

			job, err := n.Store.GetJob(cmd.Context(), id)
			if err != nil {
				return err
			}
			entries, err := n.Store.GetJobLog(cmd.Context(), id)
			if err != nil {
				return err
			}
			if opts.Format != output.TableFormat && opts.Format != output.CSVFormat {
				return output.OutputOne(cmd, nil, opts, description{Job: job, Log: entries})
			}
			if err = output.OutputOne(cmd, jobColumns, opts, job); err != nil {
				return err
			}
			return output.Output(cmd, logColumns, opts, entries)
		},
	}
	describeCmd.Flags().AddFlagSet(output.Flags("describe-output", &opts))
	return describeCmd
}
