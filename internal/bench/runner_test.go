package bench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bpbench/internal/bpp"
	"bpbench/internal/packing"
	"bpbench/internal/tabu"
)

func testRunnerParams() tabu.Params {
	return tabu.Params{
		MaxIters:            50,
		NeighborhoodSamples: 30,
		Tenure:              10,
		StagnationLimit:     25,
	}
}

func TestRunInstanceSequential(t *testing.T) {
	t.Parallel()

	inst := bpp.ExampleInstance()
	runner := &Runner{
		Runs:   5,
		Seed0:  0,
		Params: testRunnerParams(),
		Logger: zap.NewNop(),
	}

	results := runner.RunInstance(context.Background(), inst)
	require.Len(t, results, 5)

	greedy := packing.BestFit(inst, []int{2, 4, 5, 0, 6, 1, 3}).NumBins()
	for _, res := range results {
		require.NoError(t, res.Err)
		require.LessOrEqual(t, res.Bins, greedy)
		require.GreaterOrEqual(t, res.Bins, packing.LowerBound(inst))
		require.Positive(t, res.Elapsed)
	}
}

func TestRunInstanceParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	inst := bpp.SyntheticInstance("pool", 30, 150, 10, 100, 5)

	run := func(workers int) []RunResult {
		runner := &Runner{
			Runs:    6,
			Seed0:   100,
			Workers: workers,
			Params:  testRunnerParams(),
			Logger:  zap.NewNop(),
		}
		return runner.RunInstance(context.Background(), inst)
	}

	sequential := run(1)
	parallel := run(3)
	require.Len(t, parallel, 6)
	for i := range sequential {
		require.Equal(t, sequential[i].Bins, parallel[i].Bins,
			"repetition %d must be seed-deterministic regardless of workers", i)
		require.Equal(t, sequential[i].Unused, parallel[i].Unused)
	}
}

func TestRunInstanceZeroRunsDefaultsToOne(t *testing.T) {
	t.Parallel()

	runner := &Runner{Params: testRunnerParams(), Logger: zap.NewNop()}
	results := runner.RunInstance(context.Background(), bpp.ExampleInstance())
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
}

func TestRunInstanceRecordsFailures(t *testing.T) {
	t.Parallel()

	// An infeasible item makes every repetition fail without aborting the set.
	inst := &bpp.Instance{Name: "bad", Capacity: 5, Sizes: []int{6}}
	runner := &Runner{Runs: 3, Params: testRunnerParams(), Logger: zap.NewNop()}

	results := runner.RunInstance(context.Background(), inst)
	require.Len(t, results, 3)
	for _, res := range results {
		require.ErrorIs(t, res.Err, bpp.ErrInfeasibleItem)
	}

	s := Summarize(inst, results)
	require.Equal(t, 3, s.Failed)
	require.Zero(t, s.Succeeded)
}

func TestRunInstanceEndToEndSummary(t *testing.T) {
	t.Parallel()

	inst := bpp.ExampleInstance()
	runner := &Runner{Runs: 5, Params: testRunnerParams(), Logger: zap.NewNop()}

	s := Summarize(inst, runner.RunInstance(context.Background(), inst))
	require.Equal(t, 5, s.Succeeded)
	require.True(t, s.ExactKnown)
	require.Equal(t, 4, s.Exact)
	require.Equal(t, 4, s.BestObj, "greedy construction already reaches the optimum here")
	require.InDelta(t, 0.0, s.Gap, 1e-9)
	require.LessOrEqual(t, s.BestTime, s.MeanTime)
}
