package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/swipefolio/landing-api/config"
	"github.com/swipefolio/landing-api/domain"
	"github.com/swipefolio/landing-api/internal/log"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func newServerCmd(logger *log.Logger) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Serve the Swipefolio landing API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), logger, autoMigrate)
		},
	}

	cmd.Flags().BoolVarP(&autoMigrate, "auto-migrate", "m", false, "create the schema from the models on startup (dev-like APP_ENV only)")
	cmd.CompletionOptions.DisableDefaultCmd = true
	return cmd
}

func serve(ctx context.Context, logger *log.Logger, autoMigrate bool) error {
	appConfig, err := config.LoadApplicationConfiguration(logger, autoMigrate)
	if err != nil {
		logger.Error("Failed to load application configuration", "error", err.Error())
		return err
	}
	defer appConfig.Cleanup()

	domain.SetupCoreDomain(appConfig)

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(appConfig.RouterService.RunHTTPServer)
	errg.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down gracefully")

		// ctx is already done here, so the drain gets a fresh deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return appConfig.RouterService.Shutdown(shutdownCtx)
	})

	if err := errg.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return err
	}

	logger.Info("Graceful shutdown completed")
	return nil
}

func main() {
	logger := log.NewLoggerWithJSONOutput()
	logger.Info("Swipefolio landing API starting")

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	})); err != nil {
		logger.Warn("Couldn't set GOMAXPROCS from the container quota", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newServerCmd(logger).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
