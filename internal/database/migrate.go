package database

import (
	"errors"
	"fmt"

	"github.com/reasv/wfctiled/internal/logger"
)

// CopyStats summarizes a CopyRuns call.
type CopyStats struct {
	Copied  int
	Skipped int
}

// CopyRuns copies every run in src into dst, oldest first. Runs whose ID is
// already in dst are skipped, so an interrupted copy can simply be re-run.
// With dryRun set nothing is written and Copied counts the runs that would be.
func CopyRuns(src, dst *Database, dryRun bool) (CopyStats, error) {
	var stats CopyStats

	runs, err := src.ListRuns(0)
	if err != nil {
		return stats, fmt.Errorf("reading source journal: %w", err)
	}

	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]
		if _, err := dst.GetRun(run.ID); err == nil {
			stats.Skipped++
			continue
		} else if !errors.Is(err, ErrRunNotFound) {
			return stats, err
		}

		if !dryRun {
			if err := dst.RecordRun(run); err != nil {
				if errors.Is(err, ErrDuplicateRun) {
					stats.Skipped++
					continue
				}
				return stats, err
			}
		}
		stats.Copied++
	}

	logger.Info("Journal copied",
		"from", src.dialect.DriverName(),
		"to", dst.dialect.DriverName(),
		"copied", stats.Copied,
		"skipped", stats.Skipped,
		"dry_run", dryRun)
	return stats, nil
}
