package housekeeping

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gridqueue/gridbroker/cmd/util"
)

func NewCmd() *cobra.Command {
	var once bool
	housekeepingCmd := &cobra.Command{
		Use:   "housekeeping",
		Short: "Repair bucket counters and drop expired tokens",
		Long: `Repair bucket counters and drop expired tokens. Without --once the tasks run on
the configured interval until the process is interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()
			n, err := util.NewNode(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := n.Close(ctx); err == nil {
					err = closeErr
				}
			}()

			if once {
				result, err := n.Housekeeping.RunOnce(ctx)
				if err != nil {
					return err
				}
				cmd.Printf("buckets repaired: %d\ntokens expired: %d\n", result.BucketsRepaired, result.TokensExpired)
				return nil
			}

			log.Ctx(ctx).Info().Msg("housekeeping started")
			n.Housekeeping.Start(ctx)
			<-ctx.Done()
			log.Ctx(ctx).Info().Msg("housekeeping stopping")
			return nil
		},
	}
	housekeepingCmd.Flags().BoolVar(&once, "once", false, "Run the tasks once and exit")
	return housekeepingCmd
}
