package generate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/reasv/wfctiled/internal/logger"
)

// RunBatch runs jobs on at most workers goroutines and returns their results
// in job order. The first failure stops jobs that have not started yet; their
// result slots stay nil.
func RunBatch(ctx context.Context, runner *Runner, jobs []Job, workers int) ([]*Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]*Result, len(jobs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := runner.Run(job)
			results[i] = res
			if err != nil {
				return fmt.Errorf("job %d (seed %d): %w", job.Index, job.Seed, err)
			}
			return nil
		})
	}

	err := g.Wait()
	logger.Info("Batch finished", "jobs", len(jobs), "workers", workers, "failed", err != nil)
	return results, err
}
