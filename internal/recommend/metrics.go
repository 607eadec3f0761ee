package recommend

import (
	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

type Timeframe string

const (
	TimeframeImmediate Timeframe = "immediate"
	TimeframeShort     Timeframe = "short"
	TimeframeMedium    Timeframe = "medium"
	TimeframeLong      Timeframe = "long"
)

// Metrics are 0-10 ratings derived from a dimension's live scores.
type Metrics struct {
	Urgency      float64   `json:"urgency"`
	Importance   float64   `json:"importance"`
	ResourceNeed float64   `json:"resource_need"`
	Complexity   float64   `json:"complexity"`
	Timeframe    Timeframe `json:"timeframe"`
}

// ComputeMetrics derives urgency, importance, effort and complexity.
//
//	urgency      = gap/4*10*0.6 + (5-current)/4*10*0.4
//	importance   = target/5*10 * dimensionWeight
//	complexity   = complexityBase*10
//	resourceNeed = (gap*0.5 + complexityBase*0.5) * 2.5
func ComputeMetrics(current, target, gap, dimensionWeight float64) Metrics {
	gapRatio := gap / scoring.GapMax
	base := complexityBase(current, gap)

	m := Metrics{
		Urgency:      clamp10(round1(gapRatio*10*0.6 + ((scoring.ScoreMax-current)/4*10)*0.4)),
		Importance:   clamp10(round1((target / scoring.ScoreMax * 10) * dimensionWeight)),
		Complexity:   clamp10(round1(base * 10)),
		ResourceNeed: clamp10(round1((gap*0.5 + base*0.5) * 2.5)),
	}
	m.Timeframe = timeframe(m.Urgency, m.ResourceNeed)
	return m
}

// complexityBase steps down as the starting point improves and the gap shrinks.
func complexityBase(current, gap float64) float64 {
	switch {
	case current < 2.0 && gap > 2.0:
		return 0.9
	case current < 3.0 && gap > 1.5:
		return 0.7
	case gap > 1.0:
		return 0.5
	default:
		return 0.3
	}
}

func timeframe(urgency, resourceNeed float64) Timeframe {
	switch {
	case urgency > 8 && resourceNeed < 6:
		return TimeframeImmediate
	case urgency > 6:
		return TimeframeShort
	case resourceNeed > 7:
		return TimeframeLong
	default:
		return TimeframeMedium
	}
}

// Categorize honours an explicit Quick Win or Big Bet tag, otherwise derives
// the bucket from the metrics.
func Categorize(rule Rule, m Metrics) Category {
	if c, ok := explicitCategory(rule); ok {
		return c
	}
	switch {
	case m.Importance > 8 && m.ResourceNeed > 7:
		return CategoryBigBet
	case m.Urgency > 7 && m.ResourceNeed < 5:
		return CategoryQuickWin
	default:
		return CategoryProject
	}
}

func explicitCategory(rule Rule) (Category, bool) {
	if rule.Category == CategoryQuickWin || rule.Category == CategoryBigBet {
		return rule.Category, true
	}
	for _, tag := range rule.Tags {
		if c := Category(tag); c == CategoryQuickWin || c == CategoryBigBet {
			return c, true
		}
	}
	return "", false
}

func round1(v float64) float64 { return scoring.RoundToStep(v, 0.1) }

func clamp10(v float64) float64 { return scoring.Clamp(v, 0, 10) }
