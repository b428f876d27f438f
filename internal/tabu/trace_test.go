package tabu

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"bpbench/internal/bpp"
	"bpbench/internal/packing"
)

func TestTraceNarratesSearch(t *testing.T) {
	t.Parallel()

	inst := bpp.ExampleInstance()
	params := Params{
		MaxIters:            10,
		NeighborhoodSamples: 15,
		Tenure:              5,
		StagnationLimit:     100,
	}
	solver, err := New(params, rand.New(rand.NewSource(0)))
	require.NoError(t, err)

	var buf strings.Builder
	res, err := solver.Trace(context.Background(), inst, TraceConfig{ShowCandidates: true, ShowPackings: true}, &buf)
	require.NoError(t, err)
	require.NoError(t, packing.Validate(inst, res.Packing))

	out := buf.String()
	require.Contains(t, out, "TRACE: tabu search")
	require.Contains(t, out, "instance=example capacity=60 n=7")
	require.Contains(t, out, "lower_bound_bins=3")
	require.Contains(t, out, "init objective: bins=4")
	require.Contains(t, out, "sample#001")
	require.Contains(t, out, "bin#01")
	require.Contains(t, out, "DONE:")
}

func TestTraceMatchesSolve(t *testing.T) {
	t.Parallel()

	inst := bpp.SyntheticInstance("twin", 25, 150, 10, 100, 8)
	params := testParams()

	solver, err := New(params, rand.New(rand.NewSource(13)))
	require.NoError(t, err)
	solved, err := solver.Solve(context.Background(), inst)
	require.NoError(t, err)

	traced, err := func() (Result, error) {
		s, err := New(params, rand.New(rand.NewSource(13)))
		require.NoError(t, err)
		var sink strings.Builder
		return s.Trace(context.Background(), inst, TraceConfig{}, &sink)
	}()
	require.NoError(t, err)

	require.Equal(t, solved.Bins, traced.Bins, "tracing must not change the search")
	require.Equal(t, solved.Unused, traced.Unused)
	require.Equal(t, solved.Order, traced.Order)
}

func TestTraceQuietConfigSuppressesCandidates(t *testing.T) {
	t.Parallel()

	inst := bpp.ExampleInstance()
	solver, err := New(testParams(), rand.New(rand.NewSource(0)))
	require.NoError(t, err)

	var buf strings.Builder
	_, err = solver.Trace(context.Background(), inst, TraceConfig{}, &buf)
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "sample#")
}
