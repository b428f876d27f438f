package tabu

import (
	"fmt"
	"time"
)

// Params controls the search. MaxIters bounds the number of improvement
// steps, which doubles as a deterministic budget for tests; TimeLimit is the
// soft wall-clock deadline checked between steps (0 disables it).
type Params struct {
	MaxIters            int
	NeighborhoodSamples int
	Tenure              int
	StagnationLimit     int
	TimeLimit           time.Duration
}

// DefaultParams returns the parameter set used by the batch commands.
func DefaultParams() Params {
	return Params{
		MaxIters:            5000,
		NeighborhoodSamples: 200,
		Tenure:              25,
		StagnationLimit:     600,
		TimeLimit:           0,
	}
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	if p.MaxIters <= 0 {
		return fmt.Errorf("MaxIters must be > 0 (got %d)", p.MaxIters)
	}
	if p.NeighborhoodSamples <= 0 {
		return fmt.Errorf("NeighborhoodSamples must be > 0 (got %d)", p.NeighborhoodSamples)
	}
	if p.Tenure <= 0 {
		return fmt.Errorf("Tenure must be > 0 (got %d)", p.Tenure)
	}
	if p.StagnationLimit <= 0 {
		return fmt.Errorf("StagnationLimit must be > 0 (got %d)", p.StagnationLimit)
	}
	if p.TimeLimit < 0 {
		return fmt.Errorf("TimeLimit must be >= 0 (got %v)", p.TimeLimit)
	}
	return nil
}
