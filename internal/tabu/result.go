package tabu

import (
	"time"

	"bpbench/internal/packing"
)

// Result is the outcome of one search: the best packing observed during the
// run, never worse than the greedy starting point.
type Result struct {
	Order   []int
	Packing *packing.Packing
	Bins    int
	Unused  int
	Iters   int
	Elapsed time.Duration
}
