// Package tabu implements the metaheuristic packing engine: a tabu search
// over item permutations, decoded into packings by best-fit construction
// followed by bin reduction. The best packing ever observed is tracked
// separately from the exploratory current state, so the returned solution is
// never worse than the deterministic greedy baseline.
package tabu

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"bpbench/internal/bpp"
	"bpbench/internal/packing"
)

// swapProbability picks between the two neighborhood moves when sampling.
const swapProbability = 0.6

// Solver runs tabu search with a caller-supplied random source. One Solver
// serves one run; repetitions each get a fresh Solver and seed.
type Solver struct {
	params Params
	rng    *rand.Rand
}

// New validates the parameters and wraps them with the random source.
func New(params Params, rng *rand.Rand) (*Solver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("nil random source")
	}
	return &Solver{params: params, rng: rng}, nil
}

// moveKey identifies a neighborhood move for the tabu list. Swaps are keyed
// by the unordered item pair, inserts by item and target position.
type moveKey struct {
	insert bool
	a, b   int
}

// tabuList is a FIFO of recently applied moves with set-membership lookup.
type tabuList struct {
	queue  []moveKey
	member map[moveKey]struct{}
	limit  int
}

func newTabuList(limit int) *tabuList {
	return &tabuList{member: make(map[moveKey]struct{}, limit), limit: limit}
}

func (t *tabuList) contains(k moveKey) bool {
	_, ok := t.member[k]
	return ok
}

func (t *tabuList) push(k moveKey) {
	if t.limit == 0 {
		return
	}
	for len(t.queue) >= t.limit {
		old := t.queue[0]
		t.queue = t.queue[1:]
		delete(t.member, old)
	}
	t.queue = append(t.queue, k)
	t.member[k] = struct{}{}
}

func (t *tabuList) clear() {
	t.queue = t.queue[:0]
	t.member = make(map[moveKey]struct{}, t.limit)
}

func (t *tabuList) size() int {
	return len(t.member)
}

// initialOrder returns item indices sorted by decreasing size with a random
// tie-break, the deterministic greedy starting point of every run.
func initialOrder(inst *bpp.Instance, rng *rand.Rand) []int {
	n := inst.Items()
	order := make([]int, n)
	tiebreak := make([]int64, n)
	for i := range order {
		order[i] = i
		tiebreak[i] = rng.Int63()
	}
	sort.Slice(order, func(a, b int) bool {
		sa, sb := inst.Sizes[order[a]], inst.Sizes[order[b]]
		if sa != sb {
			return sa > sb
		}
		return tiebreak[order[a]] < tiebreak[order[b]]
	})
	return order
}

func decode(inst *bpp.Instance, order []int) *packing.Packing {
	return packing.ReduceBins(inst, packing.BestFit(inst, order))
}

func applySwap(order []int, i, j int) []int {
	out := append([]int(nil), order...)
	out[i], out[j] = out[j], out[i]
	return out
}

func applyInsert(order []int, i, j int) []int {
	out := append([]int(nil), order...)
	item := out[i]
	if i < j {
		copy(out[i:j], out[i+1:j+1])
	} else {
		copy(out[j+1:i+1], out[j:i])
	}
	out[j] = item
	return out
}

// Solve searches for a packing of inst within the configured budget and
// returns the best one observed. The deadline is soft: elapsed time and the
// context are checked between iterations, never mid-step, and expiry is a
// normal termination returning the best-so-far result. A cancelled context
// also returns the best-so-far result, together with the context error.
func (s *Solver) Solve(ctx context.Context, inst *bpp.Instance) (Result, error) {
	start := time.Now()
	if err := inst.Validate(); err != nil {
		return Result{}, err
	}

	n := inst.Items()
	current := initialOrder(inst, s.rng)
	currentPack := decode(inst, current)
	currentBins, currentUnused := currentPack.Objective()

	best := append([]int(nil), current...)
	bestPack := currentPack
	bestBins, bestUnused := currentBins, currentUnused
	bestIter := 0

	tabu := newTabuList(s.params.Tenure)
	lowerBound := packing.LowerBound(inst)
	lastIter := 0

	result := func() Result {
		return Result{
			Order:   best,
			Packing: bestPack,
			Bins:    bestBins,
			Unused:  bestUnused,
			Iters:   lastIter,
			Elapsed: time.Since(start),
		}
	}

	if bestBins == lowerBound {
		return result(), nil
	}

	for iter := 1; iter <= s.params.MaxIters; iter++ {
		lastIter = iter
		if s.params.TimeLimit > 0 && time.Since(start) >= s.params.TimeLimit {
			break
		}
		if err := ctx.Err(); err != nil {
			return result(), err
		}

		if iter-bestIter >= s.params.StagnationLimit {
			current = append([]int(nil), best...)
			s.rng.Shuffle(n, func(i, j int) { current[i], current[j] = current[j], current[i] })
			tabu.clear()
			bestIter = iter
		}

		var candidate []int
		var candidatePack *packing.Packing
		var candidateBins, candidateUnused int
		var candidateMove moveKey
		found := false

		for sample := 0; sample < s.params.NeighborhoodSamples; sample++ {
			i := s.rng.Intn(n)
			j := s.rng.Intn(n)
			if i == j {
				continue
			}

			var next []int
			var mv moveKey
			if s.rng.Float64() < swapProbability {
				a, b := current[i], current[j]
				if a > b {
					a, b = b, a
				}
				next = applySwap(current, i, j)
				mv = moveKey{a: a, b: b}
			} else {
				next = applyInsert(current, i, j)
				mv = moveKey{insert: true, a: current[i], b: j}
			}

			pack := decode(inst, next)
			bins, unused := pack.Objective()

			aspiration := packing.ObjectiveLess(bins, unused, bestBins, bestUnused)
			if tabu.contains(mv) && !aspiration {
				continue
			}

			if !found || packing.ObjectiveLess(bins, unused, candidateBins, candidateUnused) {
				candidate = next
				candidatePack = pack
				candidateBins, candidateUnused = bins, unused
				candidateMove = mv
				found = true
			}
		}

		if !found {
			continue
		}

		current = candidate
		currentPack = candidatePack
		currentBins, currentUnused = candidateBins, candidateUnused
		tabu.push(candidateMove)

		if packing.ObjectiveLess(currentBins, currentUnused, bestBins, bestUnused) {
			best = append([]int(nil), current...)
			bestPack = currentPack
			bestBins, bestUnused = currentBins, currentUnused
			bestIter = iter
			if bestBins == lowerBound {
				break
			}
		}
	}

	return result(), nil
}
