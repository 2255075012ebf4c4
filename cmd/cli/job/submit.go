package job

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridqueue/gridbroker/cmd/util"
	"github.com/gridqueue/gridbroker/cmd/util/output"
	"github.com/gridqueue/gridbroker/pkg/lifecycle"
	"github.com/gridqueue/gridbroker/pkg/models"
)

type submitOptions struct {
	principalOptions
	File       string
	SubmitHost string
	OutputOpts output.OutputOptions
}

func newSubmitCmd() *cobra.Command {
	o := &submitOptions{OutputOpts: output.OutputOptions{Format: output.TableFormat}}
	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a decoded job description",
		Long:  "Submit a job from a JSON or YAML file holding its decoded description. Use -f - to read JSON from stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd)
		},
	}
	submitCmd.Flags().StringVarP(&o.File, "file", "f", "", "The job description file")
	submitCmd.Flags().StringVar(&o.SubmitHost, "submit-host", "", "The host the job was submitted from")
	submitCmd.Flags().AddFlagSet(o.flags("submit"))
	submitCmd.Flags().AddFlagSet(output.Flags("submit-output", &o.OutputOpts))
	return submitCmd
}

func (o *submitOptions) run(cmd *cobra.Command) (err error) {
	principal, err := o.principal()
	if err != nil {
		return err
	}
	if o.File == "" {
		return fmt.Errorf("--file is required")
	}
	var spec models.JobSpec
	if err = util.ReadDocument(o.File, cmd.InOrStdin(), &spec); err != nil {
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

	job, err := n.Manager.Submit(cmd.Context(), lifecycle.SubmitRequest{
		Principal:  principal,
		Spec:       spec,
		SubmitHost: o.SubmitHost,
	})
	if err != nil {
		return err
	}
	return output.OutputOne(cmd, jobColumns, o.OutputOpts, job)
}
