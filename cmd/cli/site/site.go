package site

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gridqueue/gridbroker/cmd/util"
	"github.com/gridqueue/gridbroker/cmd/util/output"
	"github.com/gridqueue/gridbroker/pkg/models"
	"github.com/gridqueue/gridbroker/pkg/node"
)

var queueColumns = []output.TableColumn[models.SiteQueue]{
	{ColumnConfig: table.ColumnConfig{Name: "ce"}, Value: func(q models.SiteQueue) string { return q.CE }},
	{ColumnConfig: table.ColumnConfig{Name: "queue"}, Value: func(q models.SiteQueue) string { return q.Blocked }},
	{ColumnConfig: table.ColumnConfig{Name: "status"}, Value: func(q models.SiteQueue) string { return q.Status }},
	{
		ColumnConfig: table.ColumnConfig{Name: "last rejection", WidthMax: 80},
		Value: func(q models.SiteQueue) string {
			if q.LastRejection.Reason == "" {
				return ""
			}
			return q.LastRejection.Time.UTC().Format(time.RFC3339) + " " + q.LastRejection.Reason
		},
	},
}

func NewCmd() *cobra.Command {
	siteCmd := &cobra.Command{
		Use:   "site",
		Short: "Manage the queues and constraints of computing elements",
	}
	siteCmd.AddCommand(newBlockedCmd("open", "Accept polls from a CE", models.SiteQueueOpen))
	siteCmd.AddCommand(newBlockedCmd("lock", "Reject every poll from a CE", models.SiteQueueLocked))
	siteCmd.AddCommand(newShowCmd())
	siteCmd.AddCommand(newConfigureCmd())
	return siteCmd
}

func withNode(cmd *cobra.Command, fn func(n *node.Node) error) (err error) {
	n, err := util.NewNode(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := n.Close(cmd.Context()); err == nil {
			err = closeErr
		}
	}()
	return fn(n)
}

func newBlockedCmd(use, short, blocked string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " CE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNode(cmd, func(n *node.Node) error {
				if err := n.Store.SetSiteQueueBlocked(cmd.Context(), args[0], blocked); err != nil {
					return err
				}
				cmd.Printf("%s is %s\n", args[0], blocked)
				return nil
			})
		},
	}
}

func newShowCmd() *cobra.Command {
	opts := output.OutputOptions{Format: output.TableFormat}
	showCmd := &cobra.Command{
		Use:   "show CE",
		Short: "Show the queue record of a CE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNode(cmd, func(n *node.Node) error {
				queue, err := n.Store.GetSiteQueue(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return output.OutputOne(cmd, queueColumns, opts, queue)
			})
		},
	}
	showCmd.Flags().AddFlagSet(output.Flags("show-output", &opts))
	return showCmd
}

func newConfigureCmd() *cobra.Command {
	var file string
	configureCmd := &cobra.Command{
		Use:   "configure CE",
		Short: "Replace the constraints merged into the polls of a CE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg models.CEConfig
			if file != "" {
				if err := util.ReadDocument(file, cmd.InOrStdin(), &cfg); err != nil {
					return err
				}
			}
			cfg.CE = args[0]
			return withNode(cmd, func(n *node.Node) error {
				if err := n.Store.PutCEConfig(cmd.Context(), cfg); err != nil {
					return err
				}
				cmd.Printf("%s configured\n", cfg.CE)
				return nil
			})
		},
	}
	configureCmd.Flags().StringVarP(&file, "file", "f", "", "The CE constraints, JSON or YAML. Empty clears them.")
	return configureCmd
}
