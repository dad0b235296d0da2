package main

import (
	"github.com/spf13/cobra"

	"github.com/reasv/wfctiled/internal/logger"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	var loggingPath string

	root := &cobra.Command{
		Use:   "wfctiled",
		Short: "Generate tile maps from a sample with overlapping wave function collapse",
		Long: `wfctiled reads a small sample tile map and generates larger maps with the
same local structure. Maps can be written as CSV, PNG/BMP/TIFF rasters, or
Tiled TMX files, and every run can be journaled to SQLite or PostgreSQL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := logger.LoadConfig(loggingPath)
			if err != nil {
				return err
			}
			return logger.Initialize(cfg)
		},
	}
	root.PersistentFlags().StringVar(&loggingPath, "logging", "", "Path to a YAML file with a logging: section")

	root.AddCommand(newGenerateCmd(), newInspectCmd(), newHistoryCmd(), newMigrateJournalCmd())
	return root
}
