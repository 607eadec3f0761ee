package recommend

import (
	"math"
)

// Bubble layout constants.
const (
	DefaultBubbleLimit = 12
	bubbleMinSize      = 30
	bubbleMaxSize      = 70
	// displacement radius per unit of bubble size, in metric units
	bubbleSpread = 0.01
)

// Bubble is one point on the urgency/importance chart. X and Y are the raw
// metrics; DisplayX and DisplayY are nudged apart when points coincide.
type Bubble struct {
	RuleID      string   `json:"rule_id"`
	Title       string   `json:"title"`
	DimensionID string   `json:"dimension_id"`
	Category    Category `json:"category"`
	Rank        int      `json:"rank"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	DisplayX    float64  `json:"display_x"`
	DisplayY    float64  `json:"display_y"`
	Size        int      `json:"size"`
	Color       string   `json:"color,omitempty"`
}

// BubbleSize maps resource need (0-10) onto 30-70.
func BubbleSize(resourceNeed float64) int {
	return int(math.Round(bubbleMinSize + (resourceNeed/10)*(bubbleMaxSize-bubbleMinSize)))
}

// Layout places the top ranked recommendations. recs must already be ranked.
// limit <= 0 uses DefaultBubbleLimit.
func Layout(recs []Enhanced, colors map[string]string, limit int) []Bubble {
	if limit <= 0 {
		limit = DefaultBubbleLimit
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}

	bubbles := make([]Bubble, 0, len(recs))
	type point struct{ x, y float64 }
	groups := make(map[point][]int)
	var order []point

	for _, r := range recs {
		b := Bubble{
			RuleID:      r.RuleID,
			Title:       r.Title,
			DimensionID: r.DimensionID,
			Category:    r.Category,
			Rank:        r.Rank,
			X:           r.Metrics.Urgency,
			Y:           r.Metrics.Importance,
			DisplayX:    r.Metrics.Urgency,
			DisplayY:    r.Metrics.Importance,
			Size:        BubbleSize(r.Metrics.ResourceNeed),
			Color:       colors[r.DimensionID],
		}
		p := point{b.X, b.Y}
		if _, seen := groups[p]; !seen {
			order = append(order, p)
		}
		groups[p] = append(groups[p], len(bubbles))
		bubbles = append(bubbles, b)
	}

	for _, p := range order {
		idx := groups[p]
		if len(idx) < 2 {
			continue
		}
		step := 2 * math.Pi / float64(len(idx))
		for k, i := range idx {
			radius := float64(bubbles[i].Size) * bubbleSpread
			angle := step * float64(k)
			bubbles[i].DisplayX = roundCoord(p.x + radius*math.Cos(angle))
			bubbles[i].DisplayY = roundCoord(p.y + radius*math.Sin(angle))
		}
	}
	return bubbles
}

func roundCoord(v float64) float64 {
	return math.Round(v*1000) / 1000
}
