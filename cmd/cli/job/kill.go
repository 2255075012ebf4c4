package job

import (
	"github.com/spf13/cobra"

	"github.com/gridqueue/gridbroker/cmd/util"
)

func newKillCmd() *cobra.Command {
	o := &principalOptions{}
	killCmd := &cobra.Command{
		Use:   "kill JOBID",
		Short: "Kill a job and, for master jobs, every unfinished subjob",
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

			killed, err := n.Manager.Kill(cmd.Context(), principal, id)
			if err != nil {
				return err
			}
			if !killed {
				cmd.Printf("job %d already finished\n", id)
				return nil
			}
			cmd.Printf("job %d killed\n", id)
			return nil
		},
	}
	killCmd.Flags().AddFlagSet(o.flags("kill"))
	return killCmd
}
