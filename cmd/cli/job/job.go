package job

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gridqueue/gridbroker/cmd/util/output"
	"github.com/gridqueue/gridbroker/pkg/models"
)

func NewCmd() *cobra.Command {
	jobCmd := &cobra.Command{
		Use:   "job",
		Short: "Submit and manage jobs",
	}
	jobCmd.AddCommand(newSubmitCmd())
	jobCmd.AddCommand(newDescribeCmd())
	jobCmd.AddCommand(newStatusCmd())
	jobCmd.AddCommand(newKillCmd())
	jobCmd.AddCommand(newResubmitCmd())
	return jobCmd
}

// principalOptions identify who issues a lifecycle request.
type principalOptions struct {
	User  string
	Roles []string
}

func (o *principalOptions) flags(name string) *pflag.FlagSet {
	fset := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fset.StringVar(&o.User, "user", o.User, "The account issuing the request")
	fset.StringSliceVar(&o.Roles, "role", o.Roles, "Roles held by the account, repeatable")
	return fset
}

func (o *principalOptions) principal() (models.Principal, error) {
	if o.User == "" {
		return models.Principal{}, fmt.Errorf("--user is required")
	}
	return models.NewPrincipal(o.User, o.Roles...), nil
}

func parseJobID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job id %q", arg)
	}
	return id, nil
}

var jobColumns = []output.TableColumn[models.Job]{
	{
		ColumnConfig: table.ColumnConfig{Name: "id", Align: text.AlignRight},
		Value:        func(j models.Job) string { return strconv.FormatInt(j.ID, 10) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "owner"},
		Value:        func(j models.Job) string { return j.Owner },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "status"},
		Value:        func(j models.Job) string { return j.Status.String() },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "resubmission"},
		Value:        func(j models.Job) string { return strconv.Itoa(j.Resubmission) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "bucket"},
		Value: func(j models.Job) string {
			if j.BucketID == 0 {
				return ""
			}
			return strconv.FormatInt(j.BucketID, 10)
		},
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "exec host"},
		Value:        func(j models.Job) string { return j.ExecHost },
	},
}
