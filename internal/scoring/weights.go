package scoring

import (
	"fmt"
	"math"
)

// PriorityWeights blends the three topic priority factors.
// All weights must sum to 1.0 (±0.001 tolerance).
type PriorityWeights struct {
	Gap      float64
	Ambition float64
	Weakness float64
}

// DefaultPriorityWeights returns the 40/30/30 blend of gap size, ambition and
// current weakness.
func DefaultPriorityWeights() PriorityWeights {
	return PriorityWeights{
		Gap:      0.40,
		Ambition: 0.30,
		Weakness: 0.30,
	}
}

// Sum returns the total of all weights.
func (w PriorityWeights) Sum() float64 {
	return w.Gap + w.Ambition + w.Weakness
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w PriorityWeights) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("priority weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range []float64{w.Gap, w.Ambition, w.Weakness} {
		if v < 0 {
			return fmt.Errorf("negative priority weight: %f", v)
		}
	}
	return nil
}
