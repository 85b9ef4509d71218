// Package runner feeds files through per-worker oracles and records
// disagreements as cases.
package runner

import (
	"context"
	"io"
	"sync"
	"time"

	"jsonoracle/internal/backend"
	"jsonoracle/internal/config"
	"jsonoracle/internal/oracle"
	"jsonoracle/internal/report"
	"jsonoracle/internal/uploader"
	"jsonoracle/internal/util"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// BuildFunc constructs a fresh adapter set for one worker.
type BuildFunc func(cfg config.Config) ([]backend.Adapter, error)

// Runner orchestrates input walking, evaluation, and reporting.
type Runner struct {
	cfg      config.Config
	build    BuildFunc
	reporter *report.Reporter
	uploader uploader.Uploader

	statsMu  sync.Mutex
	stats    Stats
	sigCases map[string]int
}

// Option configures a Runner.
type Option func(*Runner)

// WithBuilder replaces backend.Build as the adapter factory.
func WithBuilder(build BuildFunc) Option {
	return func(r *Runner) {
		r.build = build
	}
}

// WithUploader replaces the uploader derived from the storage config.
func WithUploader(up uploader.Uploader) Option {
	return func(r *Runner) {
		r.uploader = up
	}
}

// New constructs a Runner for cfg.
func New(cfg config.Config, opts ...Option) (*Runner, error) {
	reporter := report.New(cfg.Report.OutputDir)
	reporter.UseUUIDPath = cfg.Report.UseUUIDPath
	reporter.Archive = cfg.Report.Archive
	r := &Runner{
		cfg:      cfg,
		build:    backend.Build,
		reporter: reporter,
		sigCases: make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.uploader == nil {
		up, err := uploader.New(cfg.Storage)
		if err != nil {
			return nil, errors.Wrap(err, "init uploader")
		}
		r.uploader = up
	}
	return r, nil
}

// Close releases the uploader when it holds a client.
func (r *Runner) Close() error {
	if c, ok := r.uploader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// job is one input file queued for evaluation.
type job struct {
	path string
	size int64
}

// Run evaluates every file under paths and returns the final counters.
func (r *Runner) Run(ctx context.Context, paths []string) (Stats, error) {
	if len(paths) == 0 {
		return Stats{}, errors.New("no input paths")
	}
	// Fail before walking when the backend set itself is broken.
	check, err := r.newOracle()
	if err != nil {
		return Stats{}, err
	}
	registered := check.Backends()
	backend.CloseAll(check.Adapters())

	stop := r.startStatsLogger()
	defer stop()
	util.Infof("runner start backends=%v workers=%d parallel=%t timeout_ms=%d",
		registered, r.cfg.Workers, r.cfg.Parallel, r.cfg.InputTimeoutMs)

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan job)
	g.Go(func() error {
		defer close(jobs)
		return r.walk(gctx, paths, jobs)
	})
	for i := 0; i < r.cfg.Workers; i++ {
		g.Go(func() error {
			return r.work(gctx, i, jobs)
		})
	}
	err = g.Wait()
	stats := r.Stats()
	util.Infof("runner done %s", stats)
	return stats, err
}

// work drains jobs with a worker-owned oracle.
func (r *Runner) work(ctx context.Context, id int, jobs <-chan job) error {
	w := &worker{id: id, r: r, timeout: time.Duration(r.cfg.InputTimeoutMs) * time.Millisecond}
	defer w.close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case j, ok := <-jobs:
			if !ok {
				return nil
			}
			if err := w.handle(ctx, j); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) newOracle() (*oracle.Oracle, error) {
	adapters, err := r.build(r.cfg)
	if err != nil {
		return nil, errors.Wrap(err, "build backends")
	}
	orc := oracle.New(oracle.WithParallel(r.cfg.Parallel))
	if err := orc.RegisterAll(adapters); err != nil {
		backend.CloseAll(adapters)
		return nil, errors.Wrap(err, "register backends")
	}
	return orc, nil
}
