package packing

import (
	"fmt"
	"sort"

	"bpbench/internal/bpp"
)

// Packing assigns every item index of an instance to exactly one bin.
// Loads[i] is the total size of the items in Bins[i].
type Packing struct {
	Capacity int
	Bins     [][]int
	Loads    []int
}

// NumBins returns the number of bins in use, the primary objective.
func (p *Packing) NumBins() int {
	return len(p.Bins)
}

// Unused returns the total slack across all bins, the secondary objective
// used to break ties between packings with equal bin counts.
func (p *Packing) Unused() int {
	unused := 0
	for _, load := range p.Loads {
		unused += p.Capacity - load
	}
	return unused
}

// Objective returns (bins, unused) for lexicographic comparison.
func (p *Packing) Objective() (int, int) {
	return p.NumBins(), p.Unused()
}

// Clone returns a deep copy of the packing.
func (p *Packing) Clone() *Packing {
	bins := make([][]int, len(p.Bins))
	for i, bin := range p.Bins {
		bins[i] = append([]int(nil), bin...)
	}
	return &Packing{
		Capacity: p.Capacity,
		Bins:     bins,
		Loads:    append([]int(nil), p.Loads...),
	}
}

// ObjectiveLess reports whether objective (bins1, unused1) is strictly better
// than (bins2, unused2).
func ObjectiveLess(bins1, unused1, bins2, unused2 int) bool {
	if bins1 != bins2 {
		return bins1 < bins2
	}
	return unused1 < unused2
}

// LowerBound returns ceil(sum of sizes / capacity), a valid lower bound on
// the optimal bin count.
func LowerBound(inst *bpp.Instance) int {
	return (inst.TotalSize() + inst.Capacity - 1) / inst.Capacity
}

// BestFit packs the items in the given order, placing each into the feasible
// bin with the least remaining space and opening a new bin when none fits.
// The result is always feasible for a valid instance.
func BestFit(inst *bpp.Instance, order []int) *Packing {
	var bins [][]int
	var loads []int

	for _, item := range order {
		size := inst.Sizes[item]
		target := -1
		bestAfter := 0
		for idx, load := range loads {
			remaining := inst.Capacity - load
			if size > remaining {
				continue
			}
			after := remaining - size
			if target < 0 || after < bestAfter {
				target = idx
				bestAfter = after
			}
		}
		if target < 0 {
			bins = append(bins, []int{item})
			loads = append(loads, size)
			continue
		}
		bins[target] = append(bins[target], item)
		loads[target] += size
	}

	return &Packing{Capacity: inst.Capacity, Bins: bins, Loads: loads}
}

// ReduceBins repeatedly tries to empty a bin by redistributing its items
// (largest first, best-fit target choice) into the remaining bins, until no
// bin can be dissolved. The input packing is not modified.
func ReduceBins(inst *bpp.Instance, p *Packing) *Packing {
	out := p.Clone()

	changed := true
	for changed {
		changed = false

		byLoad := make([]int, len(out.Bins))
		for i := range byLoad {
			byLoad[i] = i
		}
		sort.Slice(byLoad, func(a, b int) bool { return out.Loads[byLoad[a]] < out.Loads[byLoad[b]] })

		for _, source := range byLoad {
			if dissolveBin(inst, out, source) {
				changed = true
				break
			}
		}
	}
	return out
}

// dissolveBin attempts to move every item out of bins[source]; on success the
// emptied bin is removed and true is returned, otherwise the packing is left
// unchanged.
func dissolveBin(inst *bpp.Instance, p *Packing, source int) bool {
	if len(p.Bins[source]) == 0 {
		return false
	}

	items := append([]int(nil), p.Bins[source]...)
	sort.Slice(items, func(a, b int) bool { return inst.Sizes[items[a]] > inst.Sizes[items[b]] })

	type placement struct{ item, target int }
	placements := make([]placement, 0, len(items))

	for _, item := range items {
		size := inst.Sizes[item]
		target := -1
		bestAfter := 0
		for idx := range p.Bins {
			if idx == source {
				continue
			}
			remaining := p.Capacity - p.Loads[idx]
			if size > remaining {
				continue
			}
			after := remaining - size
			if target < 0 || after < bestAfter {
				target = idx
				bestAfter = after
			}
		}
		if target < 0 {
			for _, pl := range placements {
				p.Loads[pl.target] -= inst.Sizes[pl.item]
			}
			return false
		}
		placements = append(placements, placement{item, target})
		p.Loads[target] += size
	}

	for _, pl := range placements {
		p.Bins[pl.target] = append(p.Bins[pl.target], pl.item)
	}
	p.Bins = append(p.Bins[:source], p.Bins[source+1:]...)
	p.Loads = append(p.Loads[:source], p.Loads[source+1:]...)
	return true
}

// Validate checks the core correctness invariant: loads match member sizes,
// no bin exceeds capacity, and every item index of the instance appears in
// exactly one bin. Violations wrap ErrInvalidPacking.
func Validate(inst *bpp.Instance, p *Packing) error {
	if p == nil {
		return fmt.Errorf("%w: nil packing", ErrInvalidPacking)
	}
	if p.Capacity != inst.Capacity {
		return fmt.Errorf("%w: capacity %d does not match instance capacity %d", ErrInvalidPacking, p.Capacity, inst.Capacity)
	}
	if len(p.Bins) != len(p.Loads) {
		return fmt.Errorf("%w: %d bins but %d loads", ErrInvalidPacking, len(p.Bins), len(p.Loads))
	}

	seen := make([]bool, inst.Items())
	for idx, bin := range p.Bins {
		computed := 0
		for _, item := range bin {
			if item < 0 || item >= inst.Items() {
				return fmt.Errorf("%w: invalid item index %d", ErrInvalidPacking, item)
			}
			if seen[item] {
				return fmt.Errorf("%w: item %d appears more than once", ErrInvalidPacking, item)
			}
			seen[item] = true
			computed += inst.Sizes[item]
		}
		if computed != p.Loads[idx] {
			return fmt.Errorf("%w: bin %d load is %d, items sum to %d", ErrInvalidPacking, idx, p.Loads[idx], computed)
		}
		if computed > inst.Capacity {
			return fmt.Errorf("%w: bin %d load %d exceeds capacity %d", ErrInvalidPacking, idx, computed, inst.Capacity)
		}
	}
	for item, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: item %d is missing", ErrInvalidPacking, item)
		}
	}
	return nil
}
