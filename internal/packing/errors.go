package packing

import "errors"

// ErrInvalidPacking indicates a packing that violates the coverage or
// capacity invariants of its instance. It signals a solver bug and is fatal
// to the run that produced it.
var ErrInvalidPacking = errors.New("packing violates instance invariants")
