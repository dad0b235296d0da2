package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reasv/wfctiled/internal/config"
	"github.com/reasv/wfctiled/internal/database"
)

func newHistoryCmd() *cobra.Command {
	var (
		configPath string
		journal    string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently journaled runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			dbCfg := cfg.Journal.Database
			if cmd.Flags().Changed("journal") {
				dbCfg = database.DefaultConfig(journal)
			}

			db, err := database.OpenWithConfig(dbCfg)
			if err != nil {
				return fmt.Errorf("opening journal: %w", err)
			}
			defer db.Close()

			runs, err := db.ListRuns(limit)
			if err != nil {
				return err
			}
			total, err := db.CountRuns()
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), runs, total)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a generate config file")
	cmd.Flags().StringVar(&journal, "journal", "", "SQLite journal to read (overrides the config)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show (0 for all)")
	return cmd
}

func printHistory(w io.Writer, runs []*database.Run, total int) {
	fmt.Fprintf(w, "%d of %d runs\n", len(runs), total)
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  %-9s  %s %dx%d k=%d seed=%d attempts=%d/%d",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.ID, r.Status,
			r.InputPath, r.OutputWidth, r.OutputHeight, r.PatternSize, r.Seed, r.Attempts, r.Retries)
		if r.Error != "" {
			fmt.Fprintf(w, "  error=%q", r.Error)
		}
		fmt.Fprintln(w)
	}
}
