package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name                 string
		current, target, gap float64
		want                 float64
	}{
		// 2*0.4 + 0.8*0.3 + 0.6*0.3 = 1.22
		{"large gap", 2, 4, 2, 1.2},
		// 0 + 0.6*0.3 + 0.4*0.3 = 0.30
		{"no gap", 3, 3, 0, 0.3},
		// 4*0.4 + 1*0.3 + 0.8*0.3 = 2.14
		{"maximum gap", 1, 5, 4, 2.1},
		// 0 + 0.3 + 0 = 0.3
		{"fully mature", 5, 5, 0, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriorityScore(tt.current, tt.target, tt.gap))
		})
	}
}

func TestAnalyzerUsesConfiguredWeights(t *testing.T) {
	a := NewAnalyzer(PriorityWeights{Gap: 1})
	assert.Equal(t, 2.0, a.PriorityScore(2, 4, 2))
}

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		current, gap float64
		want         RiskLevel
	}{
		{2.0, 0, RiskHigh},
		{4.0, 2.0, RiskHigh},
		{3.5, 0, RiskMedium},
		{4.0, 1.0, RiskMedium},
		{2.5, 1.5, RiskMedium},
		{4.0, 0.5, RiskLow},
		{5.0, 0, RiskLow},
	}
	for _, tt := range tests {
		if got := ClassifyRisk(tt.current, tt.gap); got != tt.want {
			t.Errorf("ClassifyRisk(%v, %v) = %s, want %s", tt.current, tt.gap, got, tt.want)
		}
	}
}

func TestTopGaps(t *testing.T) {
	def := testAssessment()
	snap := touchedAll(map[string]TopicScore{
		"s1": {Current: 2, Target: 3},
		"s2": {Current: 1, Target: 4},
		"d1": {Current: 3, Target: 4},
		"d2": {Current: 5, Target: 3},
		"d3": {Current: 2, Target: 4.5},
	})

	gaps := NewAnalyzer(DefaultPriorityWeights()).TopGaps(def, snap, 0)
	require.Len(t, gaps, 5)
	ids := []string{gaps[0].TopicID, gaps[1].TopicID, gaps[2].TopicID, gaps[3].TopicID, gaps[4].TopicID}
	// s1 and d1 tie at 1.0 and keep definition order
	assert.Equal(t, []string{"s2", "d3", "s1", "d1", "d2"}, ids)
	assert.Equal(t, 0.0, gaps[4].Gap)
	assert.Equal(t, RiskHigh, gaps[0].RiskLevel)
	assert.Equal(t, "Strategy", gaps[0].DimensionTitle)
}

func TestTopTopicsLimitAndStability(t *testing.T) {
	def := testAssessment()
	snap := touchedAll(map[string]TopicScore{
		"s1": {Current: 3, Target: 3},
		"s2": {Current: 3, Target: 3},
		"d1": {Current: 1, Target: 5},
		"d2": {Current: 3, Target: 3},
	})

	top := NewAnalyzer(DefaultPriorityWeights()).TopTopics(def, snap, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "d1", top[0].TopicID)
	assert.Equal(t, "s1", top[1].TopicID)
	assert.Equal(t, "s2", top[2].TopicID)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].PriorityScore, top[i].PriorityScore)
	}
}

func TestTopTopicsSkipsUnanswered(t *testing.T) {
	def := testAssessment()
	snap := NewSnapshot(map[string]TopicScore{"s1": {Current: 1, Target: 5}}, nil)
	assert.Empty(t, NewAnalyzer(DefaultPriorityWeights()).TopTopics(def, snap, 10))
}

func TestClassifyTrend(t *testing.T) {
	assert.Equal(t, TrendPositive, ClassifyTrend(1.0, 0.2))
	assert.Equal(t, TrendNeutral, ClassifyTrend(1.0, 0.7))
	assert.Equal(t, TrendNegative, ClassifyTrend(1.0, 1.2))
	assert.Equal(t, TrendNegative, ClassifyTrend(-1.0, 0))
	assert.Equal(t, TrendNeutral, ClassifyTrend(0.5, 0))
}

func TestCompareDimensionsKeepsSign(t *testing.T) {
	def := testAssessment()
	snap := touchedAll(map[string]TopicScore{
		"s1": {Current: 4, Target: 3},
		"s2": {Current: 4, Target: 3},
		"d1": {Current: 2, Target: 4},
		"d2": {Current: 2, Target: 4},
	})

	cmp := CompareDimensions(def, snap)
	require.Len(t, cmp, 2)
	assert.Equal(t, "data", cmp[0].DimensionID)
	assert.Equal(t, 2.0, cmp[0].Gap)
	assert.Equal(t, TrendPositive, cmp[0].Trend)
	assert.Equal(t, "strategy", cmp[1].DimensionID)
	assert.Equal(t, -1.0, cmp[1].Gap)
	assert.Equal(t, TrendNegative, cmp[1].Trend)
}

func TestCurrentVariance(t *testing.T) {
	def := testAssessment()
	snap := touchedAll(map[string]TopicScore{
		"d1": {Current: 1, Target: 5},
		"d2": {Current: 3, Target: 5},
	})
	d, _ := def.Dimension("data")
	assert.Equal(t, 1.0, currentVariance(d, snap))
}
