package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"composition-converter/internal/composition"
	"composition-converter/internal/history"
	"composition-converter/internal/logging"
	"composition-converter/internal/metrics"
	"composition-converter/internal/workers"
)

// Result is the outcome of one job.
type Result struct {
	Index   int
	Options composition.Options
	Summary *composition.Summary
	Err     error
	Elapsed time.Duration
}

// Report collects the results of a batch run in job-file order.
type Report struct {
	Results []Result
	Elapsed time.Duration
}

// Failed returns the number of jobs that did not complete.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Gate holds back a job until it may start.
type Gate interface {
	Wait(ctx context.Context) error
}

// RunConfig tunes a batch run. The zero value is usable.
type RunConfig struct {
	// Workers caps conversions in flight. Non-positive sizes the pool
	// from the available CPUs; the pool never exceeds the job count.
	Workers int

	// Journal records each outcome when non-nil.
	Journal *history.Journal

	// Gate, when non-nil, is consulted before each job starts.
	Gate Gate
}

// Run executes every job in f. The returned error joins all job failures;
// the report is always complete.
func Run(ctx context.Context, f *File, cfg RunConfig) (*Report, error) {
	workerCount := workers.ForJobs(len(f.Jobs), cfg.Workers)

	start := time.Now()
	metrics.BatchRunsTotal.Inc()
	logging.Info("Running %d jobs with %d workers", len(f.Jobs), workerCount)

	report := &Report{Results: make([]Result, len(f.Jobs))}

	var g errgroup.Group
	g.SetLimit(workerCount)
	for i := range f.Jobs {
		g.Go(func() error {
			report.Results[i] = runJob(ctx, f, i, cfg)
			return nil
		})
	}
	_ = g.Wait()

	report.Elapsed = time.Since(start)
	metrics.BatchLastRunDuration.Set(report.Elapsed.Seconds())

	var errs []error
	for _, res := range report.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("job %d (%s): %w", res.Index+1, res.Options.InputPath, res.Err))
		}
	}
	logging.Info("Batch finished in %v: %d succeeded, %d failed",
		report.Elapsed.Round(time.Millisecond), len(report.Results)-len(errs), len(errs))
	return report, errors.Join(errs...)
}

func runJob(ctx context.Context, f *File, i int, cfg RunConfig) Result {
	res := Result{
		Index: i,
		Options: composition.Options{
			InputPath:  f.resolve(f.Jobs[i].Input),
			OutputPath: f.resolve(f.Jobs[i].Output),
		},
	}
	if err := waitTurn(ctx, cfg.Gate); err != nil {
		res.Err = err
		metrics.BatchJobsTotal.WithLabelValues("cancelled").Inc()
		return res
	}

	start := time.Now()
	opts, err := f.Options(i)
	if err == nil {
		res.Options = opts
		res.Summary, err = composition.Convert(opts)
	}
	res.Err = err
	res.Elapsed = time.Since(start)

	metrics.BatchJobsTotal.WithLabelValues(composition.Status(err)).Inc()
	cfg.Journal.RecordConversion(context.WithoutCancel(ctx), res.Options, res.Summary, err, res.Elapsed)
	return res
}

func waitTurn(ctx context.Context, gate Gate) error {
	if gate == nil {
		return ctx.Err()
	}
	return gate.Wait(ctx)
}
