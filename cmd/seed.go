package main

import (
	"github.com/Shivanand-hulikatti/event-listing/internal/database"
	"github.com/Shivanand-hulikatti/event-listing/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the bundled sample events",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pools, pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pools.Close()

		if err := database.Migrate(pool, logger.Named("migrate")); err != nil {
			return err
		}

		eventCache, closeCache := newEventCache(ctx)
		defer closeCache()

		reqs, err := seed.Samples()
		if err != nil {
			return err
		}
		n, err := seed.Run(ctx, newService(pools, eventCache), reqs, logger.Named("seed"))
		if err != nil {
			return err
		}
		logger.Info("seed complete", zap.Int("created", n), zap.Int("total", len(reqs)))
		return nil
	},
}
