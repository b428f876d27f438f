// Package bench runs repeated independent solver executions per instance,
// collects per-run results, and reduces them into the summary table consumed
// by the downstream report tooling.
package bench

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bpbench/internal/bpp"
	"bpbench/internal/packing"
	"bpbench/internal/tabu"
)

// progressInterval caps how often per-run progress lines are emitted on large
// batches.
const progressInterval = 2 * time.Second

// RunResult is the immutable outcome of one solver execution. A non-nil Err
// marks a failed run, which is excluded from statistics but never aborts the
// remaining repetitions.
type RunResult struct {
	Bins    int
	Unused  int
	Elapsed time.Duration
	Err     error
}

// Runner executes Runs independent repetitions of the packing engine per
// instance. Repetition r uses seed Seed0+r with a fresh solver, so no search
// state is shared between runs. Workers > 1 fans repetitions across a fixed
// goroutine pool.
type Runner struct {
	Runs     int
	Seed0    int64
	Workers  int
	Params   tabu.Params
	Logger   *zap.Logger
	Progress bool

	progressGate rate.Sometimes
}

// RunInstance performs all repetitions for one instance and returns one
// RunResult per repetition, in seed order regardless of worker scheduling.
func (r *Runner) RunInstance(ctx context.Context, inst *bpp.Instance) []RunResult {
	runs := r.Runs
	if runs <= 0 {
		runs = 1
	}
	if r.progressGate.Interval == 0 {
		r.progressGate = rate.Sometimes{First: 1, Interval: progressInterval}
	}

	results := make([]RunResult, runs)
	if r.Workers <= 1 {
		for i := range results {
			results[i] = r.runOnce(ctx, inst, i)
		}
		return results
	}

	workers := r.Workers
	if workers > runs {
		workers = runs
	}
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = r.runOnce(ctx, inst, i)
			}
		}()
	}
	for i := range results {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return results
}

func (r *Runner) runOnce(ctx context.Context, inst *bpp.Instance, run int) RunResult {
	seed := r.Seed0 + int64(run)
	rng := rand.New(rand.NewSource(seed))

	solver, err := tabu.New(r.Params, rng)
	if err != nil {
		return RunResult{Err: err}
	}

	start := time.Now()
	res, err := solver.Solve(ctx, inst)
	elapsed := time.Since(start)
	if err == nil {
		err = packing.Validate(inst, res.Packing)
	}
	if err != nil {
		if r.Logger != nil {
			r.Logger.Warn("run failed",
				zap.String("instance", inst.Name),
				zap.Int64("seed", seed),
				zap.Error(err),
			)
		}
		return RunResult{Elapsed: elapsed, Err: err}
	}

	if r.Progress && r.Logger != nil {
		r.progressGate.Do(func() {
			r.Logger.Info("run finished",
				zap.String("instance", inst.Name),
				zap.Int64("seed", seed),
				zap.Int("bins", res.Bins),
				zap.Int("unused", res.Unused),
				zap.Int("iters", res.Iters),
				zap.Duration("elapsed", elapsed),
			)
		})
	}
	return RunResult{Bins: res.Bins, Unused: res.Unused, Elapsed: elapsed}
}
