package bench

import (
	"math"

	"bpbench/internal/bpp"
	"bpbench/internal/packing"
)

// maxExactItems bounds the branch-and-bound exact reference; above this the
// exact column is only filled from a declared optimum in the dataset.
const maxExactItems = 30

// Summary is the per-instance reduction of a run set. Statistics cover
// successful runs only; Failed counts the rest. Exact and Gap are valid only
// when ExactKnown is true.
type Summary struct {
	Instance   string
	Exact      int
	ExactKnown bool
	MeanObj    float64
	BestObj    int
	StdObj     float64
	MeanTime   float64
	BestTime   float64
	Gap        float64
	Succeeded  int
	Failed     int
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// pstdev is the population standard deviation (divide by N, not N-1).
func pstdev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	m := mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

// Summarize reduces the ordered run results for one instance into a Summary.
// The exact reference comes from the dataset's declared optimum when present,
// otherwise from the exact solver for small instances. The gap is computed
// from the best objective across runs.
func Summarize(inst *bpp.Instance, results []RunResult) Summary {
	s := Summary{Instance: inst.Name}

	if inst.OptBins > 0 {
		s.Exact, s.ExactKnown = inst.OptBins, true
	} else if exact, ok := packing.ExactBinsIfSmall(inst, maxExactItems); ok {
		s.Exact, s.ExactKnown = exact, true
	}

	var objs, times []float64
	for _, res := range results {
		if res.Err != nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		objs = append(objs, float64(res.Bins))
		times = append(times, res.Elapsed.Seconds())
		if s.Succeeded == 1 || res.Bins < s.BestObj {
			s.BestObj = res.Bins
		}
	}
	if s.Succeeded == 0 {
		return s
	}

	s.MeanObj = mean(objs)
	s.StdObj = pstdev(objs)
	s.MeanTime = mean(times)
	s.BestTime = times[0]
	for _, t := range times {
		if t < s.BestTime {
			s.BestTime = t
		}
	}
	if s.ExactKnown && s.Exact > 0 {
		s.Gap = (float64(s.BestObj) - float64(s.Exact)) / float64(s.Exact) * 100
	}
	return s
}
