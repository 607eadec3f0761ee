// Package recommend matches scoring patterns against a declarative rule table
// and turns each match into a ranked recommendation with effort and impact
// metrics.
package recommend

// Range is an inclusive numeric interval. A nil bound is open.
type Range struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Category buckets a recommendation on the effort/impact map.
type Category string

const (
	CategoryQuickWin Category = "Quick Win"
	CategoryBigBet   Category = "Big Bet"
	CategoryProject  Category = "Project"
)

// Rule is one row of the recommendation table. Score, Target and Gap are the
// match conditions; an unset range always passes.
type Rule struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Why         string   `json:"why,omitempty" yaml:"why,omitempty"`
	What        string   `json:"what,omitempty" yaml:"what,omitempty"`
	How         string   `json:"how,omitempty" yaml:"how,omitempty"`
	ActionItems []string `json:"action_items,omitempty" yaml:"action_items,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Category    Category `json:"category,omitempty" yaml:"category,omitempty"`
	Priority    *float64 `json:"priority,omitempty" yaml:"priority,omitempty"`

	Score  Range `json:"score" yaml:"score"`
	Target Range `json:"target" yaml:"target"`
	Gap    Range `json:"gap" yaml:"gap"`
}

// Metadata carries rule-set wide lookups.
type Metadata struct {
	DimensionWeights map[string]float64 `json:"dimension_weights,omitempty" yaml:"dimension_weights,omitempty"`
	DimensionColors  map[string]string  `json:"dimension_colors,omitempty" yaml:"dimension_colors,omitempty"`
	ThemeMap         map[string]string  `json:"theme_map,omitempty" yaml:"theme_map,omitempty"`
}

// RuleSet groups rules by the dimension they apply to.
type RuleSet struct {
	Rules    map[string][]Rule `json:"rules" yaml:"rules"`
	Metadata Metadata          `json:"metadata" yaml:"metadata"`
}

// DefaultDimensionWeight applies when the rule set declares no weight.
const DefaultDimensionWeight = 0.5

// DimensionWeight returns the configured importance weight of a dimension.
func (rs *RuleSet) DimensionWeight(dimensionID string) float64 {
	if w, ok := rs.Metadata.DimensionWeights[dimensionID]; ok {
		return w
	}
	return DefaultDimensionWeight
}

// DimensionResult is the live score of one dimension fed to the matcher.
type DimensionResult struct {
	DimensionID string  `json:"dimension_id"`
	Title       string  `json:"title"`
	Score       float64 `json:"score"`
	Gap         float64 `json:"gap"`
}

// Target is score + gap.
func (r DimensionResult) Target() float64 {
	return r.Score + r.Gap
}

// Matches ANDs the score, target and gap conditions.
func (r Rule) Matches(res DimensionResult) bool {
	return r.Score.Contains(res.Score) &&
		r.Target.Contains(res.Target()) &&
		r.Gap.Contains(res.Gap)
}
