package bpp

import (
	"fmt"
	"math/rand"
)

// Instance is a single 1-D bin-packing problem: items of the given sizes must
// be placed into as few bins of the given capacity as possible.
type Instance struct {
	Name     string
	Capacity int
	Sizes    []int
	// OptBins is the known optimal bin count when the source supplies one,
	// 0 otherwise. Item sizes are strictly positive, so 0 is never a valid
	// optimum.
	OptBins int
}

// Validate checks the structural invariants of the instance.
func (inst *Instance) Validate() error {
	if inst == nil {
		return fmt.Errorf("%w: nil instance", ErrMalformedInput)
	}
	if inst.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be > 0 (got %d)", ErrMalformedInput, inst.Capacity)
	}
	if len(inst.Sizes) == 0 {
		return fmt.Errorf("%w: instance %q has no items", ErrMalformedInput, inst.Name)
	}
	for i, size := range inst.Sizes {
		if size <= 0 {
			return fmt.Errorf("%w: item %d must have size > 0 (got %d)", ErrMalformedInput, i+1, size)
		}
		if size > inst.Capacity {
			return fmt.Errorf("%w: item %d has size %d > capacity %d", ErrInfeasibleItem, i+1, size, inst.Capacity)
		}
	}
	return nil
}

// Items returns the number of items in the instance.
func (inst *Instance) Items() int {
	return len(inst.Sizes)
}

// TotalSize returns the sum of all item sizes.
func (inst *Instance) TotalSize() int {
	total := 0
	for _, size := range inst.Sizes {
		total += size
	}
	return total
}

// ExampleInstance returns the bundled 7-item reference instance. Its optimal
// packing uses 4 bins.
func ExampleInstance() *Instance {
	return &Instance{
		Name:     "example",
		Capacity: 60,
		Sizes:    []int{22, 17, 45, 12, 38, 27, 19},
		OptBins:  4,
	}
}

// SyntheticInstance generates an instance with n uniformly random item sizes
// in [minSize, maxSize]. The same seed always produces the same instance.
func SyntheticInstance(name string, n, capacity, minSize, maxSize int, seed int64) *Instance {
	if n <= 0 || capacity <= 0 || minSize <= 0 || maxSize < minSize || maxSize > capacity {
		panic(fmt.Sprintf("invalid synthetic instance parameters: n=%d capacity=%d sizes=[%d,%d]", n, capacity, minSize, maxSize))
	}
	rng := rand.New(rand.NewSource(seed))
	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = minSize + rng.Intn(maxSize-minSize+1)
	}
	return &Instance{Name: name, Capacity: capacity, Sizes: sizes}
}

// DefaultBatchInstances returns the fixed instance set used by batch runs:
// the reference instance plus three synthetic instances of growing size.
func DefaultBatchInstances() []*Instance {
	return []*Instance{
		ExampleInstance(),
		SyntheticInstance("synthetic-60", 60, 150, 10, 100, 1),
		SyntheticInstance("synthetic-120", 120, 150, 10, 100, 2),
		SyntheticInstance("synthetic-200", 200, 150, 10, 100, 3),
	}
}
