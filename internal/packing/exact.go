package packing

import (
	"sort"

	"bpbench/internal/bpp"
)

// ExactMinBins computes the optimal bin count by branch-and-bound over item
// placements: items are taken in decreasing size, bins with equal loads are
// tried only once, and branches that already use as many bins as the
// incumbent are cut. Intended for small instances only.
func ExactMinBins(inst *bpp.Instance) (int, error) {
	if err := inst.Validate(); err != nil {
		return 0, err
	}

	sizes := append([]int(nil), inst.Sizes...)
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	best := len(sizes)
	loads := make([]int, 0, len(sizes))
	exactDFS(0, sizes, inst.Capacity, &loads, &best)
	return best, nil
}

func exactDFS(k int, sizes []int, capacity int, loads *[]int, best *int) {
	if k == len(sizes) {
		if len(*loads) < *best {
			*best = len(*loads)
		}
		return
	}
	if len(*loads) >= *best {
		return
	}

	size := sizes[k]
	tried := make(map[int]struct{}, len(*loads))
	for i := range *loads {
		load := (*loads)[i]
		if _, dup := tried[load]; dup {
			continue
		}
		if load+size <= capacity {
			tried[load] = struct{}{}
			(*loads)[i] += size
			exactDFS(k+1, sizes, capacity, loads, best)
			(*loads)[i] -= size
		}
	}

	*loads = append(*loads, size)
	exactDFS(k+1, sizes, capacity, loads, best)
	*loads = (*loads)[:len(*loads)-1]
}

// ExactBinsIfSmall runs the exact solver only when the instance has at most
// maxItems items, reporting ok=false otherwise.
func ExactBinsIfSmall(inst *bpp.Instance, maxItems int) (int, bool) {
	if inst.Items() > maxItems {
		return 0, false
	}
	bins, err := ExactMinBins(inst)
	if err != nil {
		return 0, false
	}
	return bins, true
}
