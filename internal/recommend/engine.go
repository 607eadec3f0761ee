package recommend

import (
	"sort"
)

// Enhanced is a rule bound to one dimension's live score, with metrics and
// its 1-based rank across all matches.
type Enhanced struct {
	RuleID         string   `json:"rule_id"`
	DimensionID    string   `json:"dimension_id"`
	DimensionTitle string   `json:"dimension_title"`
	Title          string   `json:"title"`
	Why            string   `json:"why,omitempty"`
	What           string   `json:"what,omitempty"`
	How            string   `json:"how,omitempty"`
	ActionItems    []string `json:"action_items,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Category       Category `json:"category"`
	Priority       float64  `json:"priority"`
	Score          float64  `json:"score"`
	Target         float64  `json:"target"`
	Gap            float64  `json:"gap"`
	Metrics        Metrics  `json:"metrics"`
	Rank           int      `json:"rank"`
}

// Engine matches dimension results against a rule set.
type Engine struct {
	weights PriorityWeights
}

// NewEngine creates an Engine with the given priority weights.
func NewEngine(weights PriorityWeights) *Engine {
	return &Engine{weights: weights}
}

// Recommend returns every matching rule across all dimensions, ranked by
// descending priority. Results whose dimension has no rules are skipped.
func (e *Engine) Recommend(results []DimensionResult, rs *RuleSet) []Enhanced {
	if rs == nil {
		return nil
	}
	var out []Enhanced
	for _, res := range results {
		rules, ok := rs.Rules[res.DimensionID]
		if !ok {
			continue
		}
		weight := rs.DimensionWeight(res.DimensionID)
		for _, rule := range rules {
			if !rule.Matches(res) {
				continue
			}
			out = append(out, e.enhance(rule, res, weight))
		}
	}
	Rank(out)
	return out
}

func (e *Engine) enhance(rule Rule, res DimensionResult, weight float64) Enhanced {
	target := res.Target()
	m := ComputeMetrics(res.Score, target, res.Gap, weight)
	return Enhanced{
		RuleID:         rule.ID,
		DimensionID:    res.DimensionID,
		DimensionTitle: res.Title,
		Title:          rule.Title,
		Why:            rule.Why,
		What:           rule.What,
		How:            rule.How,
		ActionItems:    append([]string(nil), rule.ActionItems...),
		Tags:           append([]string(nil), rule.Tags...),
		Category:       Categorize(rule, m),
		Priority:       Prioritize(rule, m, e.weights),
		Score:          res.Score,
		Target:         target,
		Gap:            res.Gap,
		Metrics:        m,
	}
}

// Rank stable-sorts by descending priority and assigns Rank = index+1.
func Rank(recs []Enhanced) {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority > recs[j].Priority })
	for i := range recs {
		recs[i].Rank = i + 1
	}
}
