// Package batch computes the indices of many stars concurrently and hands
// the rows to the output sinks in input order.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/soltixdb/varindex/internal/analytics"
	"github.com/soltixdb/varindex/internal/analytics/variability"
	"github.com/soltixdb/varindex/internal/lightcurve"
	"github.com/soltixdb/varindex/internal/logging"
	"github.com/soltixdb/varindex/internal/metrics"
	"github.com/soltixdb/varindex/internal/output"
)

// Job is one star to process. A job with a Path is read from disk,
// otherwise LightCurve is used as is.
type Job struct {
	Star       string
	Path       string
	LightCurve analytics.LightCurve
}

// FileJobs builds one job per lightcurve file, named after the file
func FileJobs(paths []string) []Job {
	jobs := make([]Job, len(paths))
	for i, p := range paths {
		jobs[i] = Job{Star: lightcurve.StarName(p), Path: p}
	}
	return jobs
}

// Result is the outcome of one job. A failed job carries Err and an
// IndexSet in which every index is InsufficientData.
type Result struct {
	Star  string
	Set   variability.IndexSet
	Stats lightcurve.Stats
	Err   error
}

// Summary describes a finished run
type Summary struct {
	RunID   string
	Stars   int
	Failed  int
	Nmax    int
	Elapsed time.Duration
}

// Runner is the fork-join caller of variability.Engine
type Runner struct {
	engine  *variability.Engine
	workers int
	nmax    int
	sink    output.Sink
	logger  *logging.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithWorkers bounds the number of concurrent computations. 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithNmax sets the number of images of the survey. 0 means the length of
// the longest lightcurve of the run.
func WithNmax(nmax int) Option {
	return func(r *Runner) { r.nmax = nmax }
}

// WithSink sets where rows are written after the computation
func WithSink(s output.Sink) Option {
	return func(r *Runner) { r.sink = s }
}

// WithLogger sets the runner logger
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a runner over engine
func NewRunner(engine *variability.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:  engine,
		workers: runtime.GOMAXPROCS(0),
		logger:  logging.Global(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes jobs and returns one result per job in input order. A
// failing star never aborts the run; only context cancellation or a sink
// error does.
func (r *Runner) Run(ctx context.Context, jobs []Job) (results []Result, summary Summary, err error) {
	start := time.Now()
	summary.RunID = uuid.NewString()
	ctx = logging.WithRunID(ctx, summary.RunID)
	log := r.logger.WithContext(ctx)

	defer func() {
		summary.Elapsed = time.Since(start)
		metrics.ObserveBatch(err)
	}()

	log.Info("Batch run started", "stars", len(jobs), "workers", r.workers)

	results = make([]Result, len(jobs))
	curves := make([]analytics.LightCurve, len(jobs))

	if err := r.forEach(ctx, len(jobs), func(i int) {
		curves[i], results[i] = r.load(jobs[i])
	}); err != nil {
		return nil, summary, err
	}

	summary.Nmax = r.nmax
	if summary.Nmax == 0 {
		summary.Nmax = longest(curves)
	}

	if err := r.forEach(ctx, len(jobs), func(i int) {
		if results[i].Err == nil {
			r.compute(curves[i], summary.Nmax, &results[i])
		}
		if results[i].Err != nil {
			kErr, vErr := logging.Err(results[i].Err)
			log.Warn("Star skipped", "star", results[i].Star, kErr, vErr)
		}
	}); err != nil {
		return nil, summary, err
	}

	for _, res := range results {
		summary.Stars++
		if res.Err != nil {
			summary.Failed++
		}
		if r.sink == nil {
			continue
		}
		if err := r.sink.Write(ctx, res.Star, res.Set); err != nil {
			return nil, summary, fmt.Errorf("failed to write %s: %w", res.Star, err)
		}
	}

	log.Info("Batch run finished",
		"stars", summary.Stars,
		"failed", summary.Failed,
		"nmax", summary.Nmax,
		"elapsed", time.Since(start).String(),
	)
	return results, summary, nil
}

// forEach runs fn(0..n-1) on at most r.workers goroutines. Every call
// writes only its own slot, so no locking is needed.
func (r *Runner) forEach(ctx context.Context, n int, fn func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *Runner) load(job Job) (analytics.LightCurve, Result) {
	res := Result{Star: job.Star}
	if job.Path == "" {
		if res.Star == "" {
			res.Star = job.LightCurve.Name
		}
		res.Set = variability.EmptyIndexSet(job.LightCurve.Len())
		return job.LightCurve, res
	}

	lc, stats, err := lightcurve.ReadFile(job.Path)
	if res.Star == "" {
		res.Star = lightcurve.StarName(job.Path)
	}
	res.Stats = stats
	res.Set = variability.EmptyIndexSet(lc.Len())
	if err != nil {
		res.Err = err
		metrics.ObserveStar(lc.Len(), nil, 0)
	}
	return lc, res
}

func (r *Runner) compute(lc analytics.LightCurve, nmax int, res *Result) {
	defer metrics.TrackInFlight()()

	start := time.Now()
	set, err := r.engine.Compute(lc, nmax)
	if err != nil {
		res.Err = err
		metrics.ObserveStar(lc.Len(), nil, time.Since(start))
		return
	}
	res.Set = set
	metrics.ObserveStar(lc.Len(), &set, time.Since(start))
}

func longest(curves []analytics.LightCurve) int {
	n := 0
	for _, lc := range curves {
		n = max(n, lc.Len())
	}
	return n
}
