package cmd

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables or collection indexes for the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.AutoMigrate(cmd.Context()); err != nil {
			return err
		}
		a.logger.Info("Migration completed", "driver", a.cfg.StoreDriver)
		return nil
	},
}
