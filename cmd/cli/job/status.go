package job

import (
	"github.com/spf13/cobra"

	"github.com/gridqueue/gridbroker/cmd/util"
	"github.com/gridqueue/gridbroker/cmd/util/output"
	"github.com/gridqueue/gridbroker/pkg/lifecycle"
	"github.com/gridqueue/gridbroker/pkg/models"
)

type statusOptions struct {
	Expected   string
	ExecHost   string
	OutputPath string
	SpyURL     string
	Comment    string
	OutputOpts output.OutputOptions
}

func newStatusCmd() *cobra.Command {
	o := &statusOptions{OutputOpts: output.OutputOptions{Format: output.TableFormat}}
	statusCmd := &cobra.Command{
		Use:   "status JOBID STATUS",
		Short: "Move a job to a new status",
		Long:  "Move a job to a new status, as job agents do while running it. The transition must be allowed by the job lifecycle.",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	statusCmd.Flags().StringVar(&o.Expected, "expect", "", "Only change the job if it is currently in this status")
	statusCmd.Flags().StringVar(&o.ExecHost, "exec-host", "", "The host running the job")
	statusCmd.Flags().StringVar(&o.OutputPath, "output-path", "", "Where the job output was stored")
	statusCmd.Flags().StringVar(&o.SpyURL, "spy-url", "", "The address to inspect the running job")
	statusCmd.Flags().StringVar(&o.Comment, "comment", "", "A comment recorded in the job trace")
	statusCmd.Flags().AddFlagSet(output.Flags("status-output", &o.OutputOpts))
	return statusCmd
}

func (o *statusOptions) run(cmd *cobra.Command, args []string) (err error) {
	change := lifecycle.StatusChange{Comment: o.Comment}
	if change.JobID, err = parseJobID(args[0]); err != nil {
		return err
	}
	if change.NewStatus, err = models.ParseJobStatus(args[1]); err != nil {
		return err
	}
	if o.Expected != "" {
		if change.ExpectedStatus, err = models.ParseJobStatus(o.Expected); err != nil {
			return err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("exec-host") {
		change.ExecHost = &o.ExecHost
	}
	if flags.Changed("output-path") {
		change.OutputPath = &o.OutputPath
	}
	if flags.Changed("spy-url") {
		change.SpyURL = &o.SpyURL
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

	if _, err = n.Manager.SetStatus(cmd.Context(), change); err != nil {
		return err
	}
	job, err := n.Store.GetJob(cmd.Context(), change.JobID)
	if err != nil {
		return err
	}
	return output.OutputOne(cmd, jobColumns, o.OutputOpts, job)
}
