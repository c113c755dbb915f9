package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/event-listing/internal/database"
	"github.com/Shivanand-hulikatti/event-listing/internal/handler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// ── 1. Connect to PostgreSQL ──────────────────────────────────────────
		pools, pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pools.Close()

		if !skipMigrate {
			if err := database.Migrate(pool, logger.Named("migrate")); err != nil {
				return err
			}
		}

		// ── 2. Wire up layers ────────────────────────────────────────────────
		eventCache, closeCache := newEventCache(ctx)
		defer closeCache()

		svc := newService(pools, eventCache)
		h := handler.NewEventHandler(svc, cfg.Location, cfg.PublicBaseURL, logger.Named("http"))

		// ── 3. Start server with graceful shutdown ────────────────────────────
		srv := &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Port),
			Handler:      handler.NewRouter(h, logger.Named("access"), cfg.CORSOrigins),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server: %w", err)
			}
		case <-ctx.Done():
		}

		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply pending migrations on startup")
}
