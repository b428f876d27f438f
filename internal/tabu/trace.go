package tabu

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"bpbench/internal/bpp"
	"bpbench/internal/packing"
)

// TraceConfig selects how much detail Trace writes per iteration.
type TraceConfig struct {
	ShowCandidates bool
	ShowPackings   bool
}

// Trace runs the same search as Solve while narrating every step to w:
// the initial order and objective, each iteration's sampled candidates and
// chosen move, and every improvement of the best-known packing. Intended for
// studying the search on small instances.
func (s *Solver) Trace(ctx context.Context, inst *bpp.Instance, cfg TraceConfig, w io.Writer) (Result, error) {
	start := time.Now()
	if err := inst.Validate(); err != nil {
		return Result{}, err
	}

	n := inst.Items()
	fmt.Fprintf(w, "TRACE: tabu search\n")
	fmt.Fprintf(w, "instance=%s capacity=%d n=%d\n", inst.Name, inst.Capacity, n)
	fmt.Fprintf(w, "params: max_iters=%d neighborhood_samples=%d tenure=%d stagnation_limit=%d time_limit=%v\n",
		s.params.MaxIters, s.params.NeighborhoodSamples, s.params.Tenure, s.params.StagnationLimit, s.params.TimeLimit)

	lowerBound := packing.LowerBound(inst)
	fmt.Fprintf(w, "lower_bound_bins=%d\n", lowerBound)

	current := initialOrder(inst, s.rng)
	currentPack := decode(inst, current)
	currentBins, currentUnused := currentPack.Objective()

	fmt.Fprintf(w, "\ninit order (item:size): %s\n", formatOrder(inst, current))
	fmt.Fprintf(w, "init objective: bins=%d unused=%d\n", currentBins, currentUnused)
	if cfg.ShowPackings {
		writePacking(w, inst, currentPack)
	}

	best := append([]int(nil), current...)
	bestPack := currentPack
	bestBins, bestUnused := currentBins, currentUnused
	bestIter := 0

	tabu := newTabuList(s.params.Tenure)
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
		fmt.Fprintf(w, "stop: greedy start already meets the lower bound\n")
		return result(), nil
	}

	for iter := 1; iter <= s.params.MaxIters; iter++ {
		lastIter = iter
		if s.params.TimeLimit > 0 && time.Since(start) >= s.params.TimeLimit {
			fmt.Fprintf(w, "\nstop: time limit reached at iter=%d\n", iter)
			break
		}
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(w, "\nstop: context cancelled at iter=%d\n", iter)
			return result(), err
		}

		if iter-bestIter >= s.params.StagnationLimit {
			fmt.Fprintf(w, "\niter=%d: stagnation, restarting from shuffled best and clearing tabu\n", iter)
			current = append([]int(nil), best...)
			s.rng.Shuffle(n, func(i, j int) { current[i], current[j] = current[j], current[i] })
			tabu.clear()
			bestIter = iter
		}

		fmt.Fprintf(w, "\n-- iter=%d -- current bins=%d unused=%d | best bins=%d unused=%d | tabu=%d\n",
			iter, currentBins, currentUnused, bestBins, bestUnused, tabu.size())

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
			var desc string
			if s.rng.Float64() < swapProbability {
				a, b := current[i], current[j]
				if a > b {
					a, b = b, a
				}
				next = applySwap(current, i, j)
				mv = moveKey{a: a, b: b}
				desc = fmt.Sprintf("swap pos %d<->%d items %d:%d <-> %d:%d",
					i, j, current[i]+1, inst.Sizes[current[i]], current[j]+1, inst.Sizes[current[j]])
			} else {
				next = applyInsert(current, i, j)
				mv = moveKey{insert: true, a: current[i], b: j}
				desc = fmt.Sprintf("insert pos %d->%d item %d:%d", i, j, current[i]+1, inst.Sizes[current[i]])
			}

			pack := decode(inst, next)
			bins, unused := pack.Objective()

			isTabu := tabu.contains(mv)
			aspiration := packing.ObjectiveLess(bins, unused, bestBins, bestUnused)
			allowed := !isTabu || aspiration

			if cfg.ShowCandidates {
				fmt.Fprintf(w, "  sample#%03d: %-45s -> bins=%d unused=%d tabu=%t aspiration=%t allowed=%t\n",
					sample+1, desc, bins, unused, isTabu, aspiration, allowed)
			}
			if !allowed {
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
			fmt.Fprintf(w, "  no admissible candidate\n")
			continue
		}

		current = candidate
		currentPack = candidatePack
		currentBins, currentUnused = candidateBins, candidateUnused
		tabu.push(candidateMove)

		if candidateMove.insert {
			fmt.Fprintf(w, "  chosen: insert item %d:%d to position %d -> bins=%d unused=%d\n",
				candidateMove.a+1, inst.Sizes[candidateMove.a], candidateMove.b, currentBins, currentUnused)
		} else {
			fmt.Fprintf(w, "  chosen: swap items %d:%d and %d:%d -> bins=%d unused=%d\n",
				candidateMove.a+1, inst.Sizes[candidateMove.a], candidateMove.b+1, inst.Sizes[candidateMove.b], currentBins, currentUnused)
		}
		if cfg.ShowPackings {
			writePacking(w, inst, currentPack)
		}

		if packing.ObjectiveLess(currentBins, currentUnused, bestBins, bestUnused) {
			best = append([]int(nil), current...)
			bestPack = currentPack
			bestBins, bestUnused = currentBins, currentUnused
			bestIter = iter
			fmt.Fprintf(w, "  NEW BEST at iter=%d: bins=%d unused=%d\n", iter, bestBins, bestUnused)
			if bestBins == lowerBound {
				fmt.Fprintf(w, "stop: reached lower bound on bins\n")
				break
			}
		}
	}

	fmt.Fprintf(w, "\nDONE: elapsed=%.4fs iters=%d\n", time.Since(start).Seconds(), lastIter)
	fmt.Fprintf(w, "best: bins=%d unused=%d\n", bestBins, bestUnused)
	fmt.Fprintf(w, "best order (item:size): %s\n", formatOrder(inst, best))
	if cfg.ShowPackings {
		writePacking(w, inst, bestPack)
	}
	return result(), nil
}

func formatOrder(inst *bpp.Instance, order []int) string {
	parts := make([]string, len(order))
	for i, item := range order {
		parts[i] = fmt.Sprintf("%d:%d", item+1, inst.Sizes[item])
	}
	return strings.Join(parts, " ")
}

func writePacking(w io.Writer, inst *bpp.Instance, p *packing.Packing) {
	for idx, bin := range p.Bins {
		items := make([]string, len(bin))
		for i, item := range bin {
			items[i] = fmt.Sprintf("%d:%d", item+1, inst.Sizes[item])
		}
		fmt.Fprintf(w, "    bin#%02d load=%3d [%s]\n", idx+1, p.Loads[idx], strings.Join(items, ", "))
	}
}
