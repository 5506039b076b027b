package export

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/venture-profile/internal/types"
)

// DefaultConcurrency is the number of profiles rendered at once by Batch.
const DefaultConcurrency = 4

// Job is one profile to export in a batch.
type Job struct {
	// Source identifies the job in results, typically the input file.
	Source  string
	Profile *types.CompanyProfile
	Rounds  []types.FundingRound
}

// Result is the outcome of one batch job.
type Result struct {
	Source string
	Path   string
	Err    error
}

// Batch saves every job into dir using up to concurrency workers. A failing
// job does not stop the others; results are returned in job order. Jobs that
// share an output file run one after another in job order, so the last of
// them owns the file. Batch returns an error only when ctx is cancelled.
func (e *Exporter) Batch(ctx context.Context, dir string, jobs []Job, concurrency int) ([]Result, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]Result, len(jobs))
	var failed atomic.Int32

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, group := range groupByFileName(jobs) {
		g.Go(func() error {
			for _, i := range group {
				if err := gCtx.Err(); err != nil {
					return err
				}
				job := jobs[i]
				path, err := e.SaveToFile(dir, job.Profile, job.Rounds)
				results[i] = Result{Source: job.Source, Path: path, Err: err}
				if err != nil {
					failed.Add(1)
					e.logger.Warn("export failed", "source", job.Source, "err", err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	e.logger.Info("batch complete", "jobs", len(jobs), "failed", failed.Load())
	return results, nil
}

// groupByFileName returns job indexes grouped by output file name, groups
// ordered by their first job.
func groupByFileName(jobs []Job) [][]int {
	var groups [][]int
	byName := make(map[string]int, len(jobs))
	for i, job := range jobs {
		name := FileName(profileName(job.Profile))
		g, ok := byName[name]
		if !ok {
			g = len(groups)
			byName[name] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}
