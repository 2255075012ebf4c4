package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridqueue/gridbroker/cmd/util"
	"github.com/gridqueue/gridbroker/pkg/config"
	"github.com/gridqueue/gridbroker/pkg/jobstore/sqlstore"
)

func NewCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the broker database schema",
	}
	migrateCmd.AddCommand(newDirectionCmd("up", "Apply every pending migration", (*sqlstore.Store).MigrateUp))
	migrateCmd.AddCommand(newDirectionCmd("down", "Revert every migration", (*sqlstore.Store).MigrateDown))
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(store *sqlstore.Store) error {
				version, dirty, err := store.SchemaVersion()
				if err != nil {
					return err
				}
				cmd.Printf("%d", version)
				if dirty {
					cmd.Print(" (dirty)")
				}
				cmd.Println()
				return nil
			})
		},
	})
	return migrateCmd
}

func newDirectionCmd(use, short string, run func(*sqlstore.Store) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(store *sqlstore.Store) error {
				if err := run(store); err != nil {
					return fmt.Errorf("migrate %s failed: %w", use, err)
				}
				cmd.Println("ok")
				return nil
			})
		},
	}
}

// withStore opens the store without applying migrations, so the schema is only changed
// by the explicit subcommand.
func withStore(cmd *cobra.Command, fn func(*sqlstore.Store) error) (err error) {
	cfg, err := util.GetConfig(cmd)
	if err != nil {
		return err
	}
	var store *sqlstore.Store
	if cfg.Store.Driver == config.DriverPostgres {
		store, err = sqlstore.NewPostgres(cfg.Store.DSN, sqlstore.WithoutMigrations())
	} else {
		store, err = sqlstore.NewSQLite(cfg.Store.Path, sqlstore.WithoutMigrations())
	}
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(cmd.Context()); err == nil {
			err = closeErr
		}
	}()
	return fn(store)
}
