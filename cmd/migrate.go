package main

import (
	"github.com/Shivanand-hulikatti/event-listing/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		pools, pool, err := connectDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pools.Close()

		return database.Migrate(pool, logger.Named("migrate"))
	},
}
