package job

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridqueue/gridbroker/cmd/util"
)

func newResubmitCmd() *cobra.Command {
	o := &principalOptions{}
	resubmitCmd := &cobra.Command{
		Use:   "resubmit JOBID",
		Short: "Reset a job so that it runs again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			principal, err := o.principal()
			if err != nil {
				return err
			}
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

			result := n.Manager.Resubmit(cmd.Context(), principal, id)
			if !result.OK() {
				return fmt.Errorf("resubmit failed with %s: %s", result.Code, result.Message)
			}
			cmd.Println(result.Message)
			return nil
		},
	}
	resubmitCmd.Flags().AddFlagSet(o.flags("resubmit"))
	return resubmitCmd
}
