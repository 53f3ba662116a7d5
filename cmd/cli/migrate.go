package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/swipefolio/landing-api/config"
	"github.com/swipefolio/landing-api/internal/log"
	"github.com/swipefolio/landing-api/internal/models"
	"github.com/swipefolio/landing-api/pkg/migrations"
)

func newMigrateCmd(logger *log.Logger) *cobra.Command {
	var (
		timeout time.Duration
		dir     string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and exit",
		Long: "Applies the SQL migrations bundled with the binary, or those in --dir (MIGRATIONS_DIR) when set.\n" +
			"With DB_DRIVER=sqlite the schema is created from the models instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbConfig, err := config.LoadDBConfig()
			if err != nil {
				return err
			}

			db, err := config.NewDatabase(logger, dbConfig)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer config.CloseDatabase(db, logger)

			if dbConfig.IsSQLite() {
				return config.AutoMigrate(logger, db, models.ModelRegistry...)
			}

			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("get SQL DB instance: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			cfg := migrations.Config{
				Dir:    dir,
				Logger: logger,
			}
			if err := migrations.Up(ctx, sqlDB, cfg); err != nil {
				logger.Error("Database migration failed", "error", err.Error())
				return err
			}

			logger.Info("Database migrations completed")
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", os.Getenv("MIGRATIONS_DIR"), "read migrations from this directory instead of the embedded set")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "abort the migration after this long")
	return cmd
}
