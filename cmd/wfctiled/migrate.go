package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reasv/wfctiled/internal/database"
)

func newMigrateJournalCmd() *cobra.Command {
	var (
		sqlitePath string
		pg         = database.DefaultPostgresConfig()
		dryRun     bool
	)
	cmd := &cobra.Command{
		Use:   "migrate-journal",
		Short: "Copy journaled runs from SQLite to PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := database.Open(sqlitePath)
			if err != nil {
				return fmt.Errorf("opening SQLite journal: %w", err)
			}
			defer src.Close()

			dst, err := database.OpenWithConfig(database.Config{Driver: "postgres", Postgres: pg})
			if err != nil {
				return fmt.Errorf("opening PostgreSQL journal: %w", err)
			}
			defer dst.Close()

			stats, err := database.CopyRuns(src, dst, dryRun)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d runs, skipped %d already present\n", stats.Copied, stats.Skipped)
			if dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), "(dry run, nothing was written)")
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&sqlitePath, "sqlite", "data/journal.db", "Path to the SQLite journal")
	f.StringVar(&pg.Host, "pg-host", pg.Host, "PostgreSQL host")
	f.IntVar(&pg.Port, "pg-port", pg.Port, "PostgreSQL port")
	f.StringVar(&pg.User, "pg-user", "", "PostgreSQL user")
	f.StringVar(&pg.Password, "pg-password", "", "PostgreSQL password")
	f.StringVar(&pg.Database, "pg-database", "wfctiled", "PostgreSQL database name")
	f.StringVar(&pg.SSLMode, "pg-sslmode", pg.SSLMode, "PostgreSQL SSL mode")
	f.BoolVar(&dryRun, "dry-run", false, "Show what would be copied without writing")
	return cmd
}
