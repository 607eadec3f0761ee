package recommend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }

func TestRangeContainsInclusive(t *testing.T) {
	r := Range{Max: float64Ptr(2.5)}
	assert.True(t, r.Contains(2.5))
	assert.False(t, r.Contains(2.51))

	r = Range{Min: float64Ptr(1), Max: float64Ptr(2)}
	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(0.99))

	assert.True(t, Range{}.Contains(-100), "unbounded range always passes")
}

func TestRuleMatches(t *testing.T) {
	rule := Rule{ID: "r1", Gap: Range{Min: float64Ptr(0.5)}, Score: Range{Max: float64Ptr(3)}}
	assert.True(t, rule.Matches(DimensionResult{Score: 2.5, Gap: 1.0}))
	assert.False(t, rule.Matches(DimensionResult{Score: 3.5, Gap: 1.0}))
	assert.False(t, rule.Matches(DimensionResult{Score: 2.5, Gap: 0}))

	targeted := Rule{Target: Range{Min: float64Ptr(4)}}
	assert.True(t, targeted.Matches(DimensionResult{Score: 3, Gap: 1}), "target is score + gap")
	assert.False(t, targeted.Matches(DimensionResult{Score: 3, Gap: 0.5}))
}

func TestComputeMetrics(t *testing.T) {
	t.Run("moderate gap", func(t *testing.T) {
		m := ComputeMetrics(2.5, 3.5, 1.0, 0.5)
		assert.Equal(t, 4.0, m.Urgency)
		assert.Equal(t, 3.5, m.Importance)
		assert.Equal(t, 3.0, m.Complexity)
		assert.Equal(t, 1.6, m.ResourceNeed)
		assert.Equal(t, TimeframeMedium, m.Timeframe)
	})

	t.Run("weak start large gap", func(t *testing.T) {
		m := ComputeMetrics(1.0, 4.0, 3.0, 1.0)
		assert.Equal(t, 8.5, m.Urgency)
		assert.Equal(t, 8.0, m.Importance)
		assert.Equal(t, 9.0, m.Complexity)
		assert.Equal(t, 4.9, m.ResourceNeed)
		assert.Equal(t, TimeframeImmediate, m.Timeframe)
	})

	t.Run("values stay within 0-10", func(t *testing.T) {
		m := ComputeMetrics(1.0, 5.0, 4.0, 3.0)
		assert.Equal(t, 10.0, m.Urgency)
		assert.Equal(t, 10.0, m.Importance)
	})
}

func TestComplexityBase(t *testing.T) {
	assert.Equal(t, 0.9, complexityBase(1.5, 2.5))
	assert.Equal(t, 0.7, complexityBase(2.5, 2.0))
	assert.Equal(t, 0.5, complexityBase(3.5, 1.5))
	assert.Equal(t, 0.3, complexityBase(3.5, 1.0))
}

func TestTimeframe(t *testing.T) {
	assert.Equal(t, TimeframeImmediate, timeframe(8.5, 5.9))
	assert.Equal(t, TimeframeShort, timeframe(8.5, 6.0))
	assert.Equal(t, TimeframeShort, timeframe(6.5, 9))
	assert.Equal(t, TimeframeLong, timeframe(6.0, 7.5))
	assert.Equal(t, TimeframeMedium, timeframe(6.0, 7.0))
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, CategoryBigBet, Categorize(Rule{Category: CategoryBigBet}, Metrics{Urgency: 9, ResourceNeed: 1}))
	assert.Equal(t, CategoryQuickWin, Categorize(Rule{Tags: []string{"data", "Quick Win"}}, Metrics{}))
	assert.Equal(t, CategoryBigBet, Categorize(Rule{}, Metrics{Importance: 8.5, ResourceNeed: 7.5}))
	assert.Equal(t, CategoryQuickWin, Categorize(Rule{}, Metrics{Urgency: 7.5, ResourceNeed: 4.9}))
	assert.Equal(t, CategoryProject, Categorize(Rule{}, Metrics{Urgency: 7, ResourceNeed: 4}))
	assert.Equal(t, CategoryProject, Categorize(Rule{Category: CategoryProject}, Metrics{Urgency: 7.5, ResourceNeed: 1}),
		"only Quick Win and Big Bet override the derived bucket")
}

func TestPrioritize(t *testing.T) {
	m := Metrics{Urgency: 4.0, Importance: 3.5, ResourceNeed: 1.6}
	assert.Equal(t, 4.7, Prioritize(Rule{}, m, DefaultPriorityWeights()))
	assert.Equal(t, 9.5, Prioritize(Rule{Priority: float64Ptr(9.5)}, m, DefaultPriorityWeights()))
}

func TestRecommendWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultPriorityWeights().Validate())
	assert.Error(t, PriorityWeights{Urgency: 1, Importance: 1}.Validate())
	assert.Error(t, PriorityWeights{Urgency: 1.2, Importance: -0.2}.Validate())
}

func testRuleSet() *RuleSet {
	return &RuleSet{
		Rules: map[string][]Rule{
			"strategy": {
				{ID: "s-basics", Title: "Define an AI strategy", Score: Range{Max: float64Ptr(2.5)}, ActionItems: []string{"Appoint a sponsor"}},
				{ID: "s-scale", Title: "Scale the portfolio", Score: Range{Min: float64Ptr(3.5)}},
			},
			"data": {
				{ID: "d-quality", Title: "Fix data quality", Gap: Range{Min: float64Ptr(2)}},
			},
		},
		Metadata: Metadata{
			DimensionWeights: map[string]float64{"data": 1.0},
			DimensionColors:  map[string]string{"data": "#2563eb"},
		},
	}
}

func TestEngineRecommend(t *testing.T) {
	e := NewEngine(DefaultPriorityWeights())
	results := []DimensionResult{
		{DimensionID: "strategy", Title: "Strategy", Score: 2.5, Gap: 1.0},
		{DimensionID: "data", Title: "Data", Score: 1.0, Gap: 3.0},
		{DimensionID: "unknown", Title: "Unknown", Score: 1.0, Gap: 4.0},
	}

	recs := e.Recommend(results, testRuleSet())
	require.Len(t, recs, 2)

	assert.Equal(t, "d-quality", recs[0].RuleID)
	assert.Equal(t, 1, recs[0].Rank)
	assert.Equal(t, 7.7, recs[0].Priority)
	assert.Equal(t, CategoryQuickWin, recs[0].Category)
	assert.Equal(t, 4.0, recs[0].Target)
	assert.Equal(t, "Data", recs[0].DimensionTitle)

	assert.Equal(t, "s-basics", recs[1].RuleID)
	assert.Equal(t, 2, recs[1].Rank)
	assert.Equal(t, 4.7, recs[1].Priority)
	assert.Equal(t, CategoryProject, recs[1].Category)
}

func TestEngineRecommendNilRuleSet(t *testing.T) {
	assert.Nil(t, NewEngine(DefaultPriorityWeights()).Recommend([]DimensionResult{{DimensionID: "x"}}, nil))
}

func TestRankStableOnTies(t *testing.T) {
	recs := []Enhanced{
		{RuleID: "a", Priority: 5},
		{RuleID: "b", Priority: 7},
		{RuleID: "c", Priority: 5},
		{RuleID: "d", Priority: 7},
	}
	Rank(recs)
	var ids []string
	for i, r := range recs {
		ids = append(ids, r.RuleID)
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
}

func TestBubbleSize(t *testing.T) {
	assert.Equal(t, 30, BubbleSize(0))
	assert.Equal(t, 70, BubbleSize(10))
	assert.Equal(t, 36, BubbleSize(1.6))
	assert.Equal(t, 50, BubbleSize(4.9))
}

func TestLayoutLimitAndCoordinates(t *testing.T) {
	var recs []Enhanced
	for i := 0; i < 15; i++ {
		recs = append(recs, Enhanced{
			RuleID:      fmt.Sprintf("r%d", i),
			DimensionID: "data",
			Rank:        i + 1,
			Metrics:     Metrics{Urgency: float64(i % 10), Importance: float64(i), ResourceNeed: 5},
		})
	}
	bubbles := Layout(recs, map[string]string{"data": "#2563eb"}, 0)
	require.Len(t, bubbles, DefaultBubbleLimit)
	assert.Equal(t, 3.0, bubbles[3].X)
	assert.Equal(t, 3.0, bubbles[3].Y)
	assert.Equal(t, 50, bubbles[3].Size)
	assert.Equal(t, "#2563eb", bubbles[3].Color)
	assert.Equal(t, bubbles[3].X, bubbles[3].DisplayX, "unique points are not displaced")
}

func TestLayoutDisplacesCoincidentBubbles(t *testing.T) {
	m := Metrics{Urgency: 6, Importance: 4, ResourceNeed: 5}
	recs := []Enhanced{
		{RuleID: "a", Rank: 1, Metrics: m},
		{RuleID: "b", Rank: 2, Metrics: m},
		{RuleID: "c", Rank: 3, Metrics: m},
		{RuleID: "d", Rank: 4, Metrics: Metrics{Urgency: 1, Importance: 1}},
	}
	bubbles := Layout(recs, nil, 12)
	require.Len(t, bubbles, 4)

	seen := map[[2]float64]bool{}
	for _, b := range bubbles[:3] {
		assert.Equal(t, 6.0, b.X, "raw coordinates are preserved")
		assert.Equal(t, 4.0, b.Y)
		key := [2]float64{b.DisplayX, b.DisplayY}
		assert.False(t, seen[key], "bubbles %s overlap", b.RuleID)
		seen[key] = true
	}
	// radius = size * 0.01 = 0.5 at angle 0
	assert.Equal(t, 6.5, bubbles[0].DisplayX)
	assert.Equal(t, 4.0, bubbles[0].DisplayY)
	assert.Equal(t, 1.0, bubbles[3].DisplayX)
}
