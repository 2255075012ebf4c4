package match

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridqueue/gridbroker/cmd/util"
	"github.com/gridqueue/gridbroker/cmd/util/output"
	"github.com/gridqueue/gridbroker/pkg/models"
)

type matchOptions struct {
	File       string
	OutputOpts output.OutputOptions
}

func NewCmd() *cobra.Command {
	o := &matchOptions{OutputOpts: output.OutputOptions{Format: output.JSONFormat, Pretty: true}}
	matchCmd := &cobra.Command{
		Use:   "match",
		Short: "Answer one job agent poll",
		Long: `Answer one job agent poll from a worker snapshot file, claiming a job when one fits.
The response is what the agent would receive: an assigned job with its token, a list
of packages to install, a rejection or nothing to run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd)
		},
	}
	matchCmd.Flags().StringVarP(&o.File, "file", "f", "", "The worker snapshot file, JSON or YAML")
	matchCmd.Flags().AddFlagSet(output.Flags("match-output", &o.OutputOpts))
	return matchCmd
}

func (o *matchOptions) run(cmd *cobra.Command) (err error) {
	if o.File == "" {
		return fmt.Errorf("--file is required")
	}
	if o.OutputOpts.Format == output.TableFormat || o.OutputOpts.Format == output.CSVFormat {
		return fmt.Errorf("match responses are only printed as json or yaml")
	}
	var request models.MatchRequest
	if err = util.ReadDocument(o.File, cmd.InOrStdin(), &request); err != nil {
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

	response, err := n.Broker.Match(cmd.Context(), request)
	if err != nil {
		return err
	}
	return output.OutputOne(cmd, nil, o.OutputOpts, response)
}
