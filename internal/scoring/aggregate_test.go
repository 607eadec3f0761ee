package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Compass/internal/assessment"
)

func TestSummarizeDimensionExample(t *testing.T) {
	dim := assessment.Dimension{ID: "strategy", Topics: topics("a", "b")}
	snap := touchedAll(map[string]TopicScore{
		"a": {Current: 2, Target: 4},
		"b": {Current: 3, Target: 3},
	})

	s := SummarizeDimension(dim, snap)
	assert.Equal(t, 2.5, s.CurrentAvg)
	assert.Equal(t, 3.5, s.TargetAvg)
	assert.Equal(t, 1.0, s.GapAvg)
	assert.Equal(t, 2, s.AnsweredCount)
	assert.Equal(t, 2, s.TotalCount)
	assert.Equal(t, 100, s.Progress)

	overall := SummarizeOverall([]DimensionSummary{s})
	assert.Equal(t, 2.5, overall.CurrentAvg)
	assert.Equal(t, 3.5, overall.TargetAvg)
	assert.Equal(t, 1.0, overall.GapAvg)
	assert.Equal(t, 2, overall.AnsweredCount)
	assert.Equal(t, 100, overall.Progress)
	assert.Equal(t, 1.0, overall.ConfidenceRatio)
}

func TestSummarizeDimensionNoAnswers(t *testing.T) {
	dim := assessment.Dimension{ID: "strategy", Topics: topics("a", "b")}
	// rated but never touched, and touched but never rated
	snap := NewSnapshot(
		map[string]TopicScore{"a": {Current: 4, Target: 5}},
		map[string]bool{"b": true},
	)

	s := SummarizeDimension(dim, snap)
	assert.Zero(t, s.CurrentAvg)
	assert.Zero(t, s.TargetAvg)
	assert.Zero(t, s.GapAvg)
	assert.Zero(t, s.AnsweredCount)
	assert.Zero(t, s.Progress)
}

func TestSummarizeDimensionTouchedWithoutScoreIsExcluded(t *testing.T) {
	dim := assessment.Dimension{ID: "strategy", Topics: topics("a", "b", "c", "d")}
	snap := NewSnapshot(
		map[string]TopicScore{"a": {Current: 4, Target: 5}},
		map[string]bool{"a": true, "b": true},
	)

	s := SummarizeDimension(dim, snap)
	assert.Equal(t, 1, s.AnsweredCount)
	assert.Equal(t, 4.0, s.CurrentAvg, "missing score must not count as zero")
	assert.Equal(t, 25, s.Progress, "progress uses the total topic count")
}

func TestSummarizeDimensionNormalizesRatings(t *testing.T) {
	dim := assessment.Dimension{ID: "strategy", Topics: topics("a")}
	snap := touchedAll(map[string]TopicScore{"a": {Current: 0.2, Target: 7}})

	s := SummarizeDimension(dim, snap)
	assert.Equal(t, 1.0, s.CurrentAvg)
	assert.Equal(t, 5.0, s.TargetAvg)
	assert.Equal(t, 4.0, s.GapAvg)
}

func TestSummarizeOverallIsResponseWeighted(t *testing.T) {
	def := testAssessment()
	snap := touchedAll(map[string]TopicScore{
		"s1": {Current: 1, Target: 2},
		"d1": {Current: 4, Target: 4},
		"d2": {Current: 4, Target: 4},
		"d3": {Current: 4, Target: 4},
	})

	dims, overall := SummarizeAssessment(def, snap)
	require.Len(t, dims, 2)
	assert.Equal(t, 1.0, dims[0].CurrentAvg)
	assert.Equal(t, 4.0, dims[1].CurrentAvg)

	// (1+4+4+4)/4 = 3.25 -> 3.5; the average of averages would be 2.5
	assert.Equal(t, 3.5, overall.CurrentAvg)
	assert.Equal(t, 4, overall.AnsweredCount)
	assert.Equal(t, 6, overall.TotalCount)
	assert.Equal(t, 67, overall.Progress)
	assert.Equal(t, 0.67, overall.ConfidenceRatio)
}

func TestSummarizeOverallEmpty(t *testing.T) {
	_, overall := SummarizeAssessment(testAssessment(), Snapshot{})
	assert.Zero(t, overall.CurrentAvg)
	assert.Zero(t, overall.ConfidenceRatio)
	assert.Zero(t, overall.Progress)
	assert.Equal(t, 6, overall.TotalCount)
}

func TestNewSnapshotCopiesInput(t *testing.T) {
	ratings := map[string]TopicScore{"a": {Current: 2, Target: 3}}
	touched := map[string]bool{"a": true}
	snap := NewSnapshot(ratings, touched)

	ratings["a"] = TopicScore{Current: 5, Target: 5}
	touched["a"] = false

	score, ok := snap.Answered("a")
	require.True(t, ok)
	assert.Equal(t, 2.0, score.Current)
}

func TestSummarizeOverallFromPlainSummaries(t *testing.T) {
	overall := SummarizeOverall([]DimensionSummary{
		{CurrentAvg: 4, TargetAvg: 5, AnsweredCount: 2, TotalCount: 2},
	})
	assert.Equal(t, 4.0, overall.CurrentAvg)
	assert.Equal(t, 5.0, overall.TargetAvg)
	assert.Equal(t, 1.0, overall.GapAvg)
	assert.Equal(t, 1.0, overall.ConfidenceRatio)
}

func TestSummarizeOverallAfterJSONRoundTrip(t *testing.T) {
	snap := touchedAll(map[string]TopicScore{
		"s1": {Current: 1, Target: 2},
		"d1": {Current: 4, Target: 4},
		"d2": {Current: 4, Target: 4},
		"d3": {Current: 4, Target: 4},
	})
	dims, want := SummarizeAssessment(testAssessment(), snap)

	data, err := json.Marshal(dims)
	require.NoError(t, err)
	var decoded []DimensionSummary
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, want, SummarizeOverall(decoded))
	assert.Equal(t, 12.0, decoded[1].CurrentSum)
}
