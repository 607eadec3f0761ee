package recommend

import (
	"fmt"
	"math"
)

// PriorityWeights blends the metrics into a recommendation priority.
// All weights must sum to 1.0 (±0.001 tolerance).
type PriorityWeights struct {
	Urgency    float64
	Importance float64
	Effort     float64
}

// DefaultPriorityWeights returns the 50/30/20 urgency, importance and
// inverse-effort blend.
func DefaultPriorityWeights() PriorityWeights {
	return PriorityWeights{
		Urgency:    0.50,
		Importance: 0.30,
		Effort:     0.20,
	}
}

// Sum returns the total of all weights.
func (w PriorityWeights) Sum() float64 {
	return w.Urgency + w.Importance + w.Effort
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w PriorityWeights) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("recommendation weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range []float64{w.Urgency, w.Importance, w.Effort} {
		if v < 0 {
			return fmt.Errorf("negative recommendation weight: %f", v)
		}
	}
	return nil
}

// Prioritize uses the rule's declared priority when present.
func Prioritize(rule Rule, m Metrics, w PriorityWeights) float64 {
	if rule.Priority != nil {
		return *rule.Priority
	}
	return round1(m.Urgency*w.Urgency + m.Importance*w.Importance + (10-m.ResourceNeed)*w.Effort)
}
