package scoring

// FactorResult captures one factor's contribution to a topic priority score.
type FactorResult struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Reason   string  `json:"reason"`
}

// gapFactor is the raw gap size. It is not normalized to [0,1], so a large
// gap dominates the blend.
func gapFactor(gap float64) FactorResult {
	return FactorResult{Name: "gap", Score: gap, Reason: "absolute gap size"}
}

// ambitionFactor is target/5.
func ambitionFactor(target float64) FactorResult {
	return FactorResult{Name: "ambition", Score: target / ScoreMax, Reason: "target relative to scale maximum"}
}

// weaknessFactor is (5-current)/5.
func weaknessFactor(current float64) FactorResult {
	return FactorResult{Name: "weakness", Score: (ScoreMax - current) / ScoreMax, Reason: "distance of current state from scale maximum"}
}

// ExplainPriority returns the weighted factor breakdown behind a priority score.
func ExplainPriority(current, target, gap float64, w PriorityWeights) []FactorResult {
	factors := []FactorResult{
		gapFactor(gap),
		ambitionFactor(target),
		weaknessFactor(current),
	}
	weights := []float64{w.Gap, w.Ambition, w.Weakness}
	for i := range factors {
		factors[i].Weight = weights[i]
		factors[i].Weighted = factors[i].Score * weights[i]
	}
	return factors
}
