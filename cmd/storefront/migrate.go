package main

import (
	"context"
	"database/sql"
	"fmt"
	"text/tabwriter"
	"time"

	"storefront-admin/internal/config"
	"storefront-admin/internal/database"
	"storefront-admin/internal/logger"
	"storefront-admin/migrations"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQLDB(cmd.Context(), func(run migrationRun) error {
			return database.RunMigrations(cmd.Context(), run.db, migrations.FS, run.log)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied state of every migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQLDB(cmd.Context(), func(run migrationRun) error {
			states, err := database.GetMigrationStatus(cmd.Context(), run.db, migrations.FS)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tFILE")
			for _, st := range states {
				state, appliedAt := "pending", "-"
				if st.Applied {
					state, appliedAt = "applied", st.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", st.Version, state, appliedAt, st.File)
			}
			return tw.Flush()
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

type migrationRun struct {
	db  *sql.DB
	log *zap.Logger
}

// withSQLDB opens the pool, exposes it through database/sql for goose and
// closes both afterwards.
func withSQLDB(ctx context.Context, fn func(migrationRun) error) error {
	cfg := config.Load()
	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	pool, err := database.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := database.SQLDB(pool)
	defer db.Close()

	return fn(migrationRun{db: db, log: log})
}
