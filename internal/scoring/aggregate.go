package scoring

import (
	"math"

	"github.com/MikeSquared-Agency/Compass/internal/assessment"
)

// DimensionSummary aggregates the answered topics of one dimension.
type DimensionSummary struct {
	DimensionID   string  `json:"dimension_id"`
	Title         string  `json:"title"`
	CurrentAvg    float64 `json:"current_avg"`
	TargetAvg     float64 `json:"target_avg"`
	GapAvg        float64 `json:"gap_avg"`
	AnsweredCount int     `json:"answered_count"`
	TotalCount    int     `json:"total_count"`
	Progress      int     `json:"progress"`

	// Sums of the normalized ratings, carried so the overall pass can weigh
	// dimensions by answer count.
	CurrentSum float64 `json:"current_sum"`
	TargetSum  float64 `json:"target_sum"`
}

// OverallSummary is the response-weighted aggregate across every dimension.
type OverallSummary struct {
	CurrentAvg      float64 `json:"current_avg"`
	TargetAvg       float64 `json:"target_avg"`
	GapAvg          float64 `json:"gap_avg"`
	AnsweredCount   int     `json:"answered_count"`
	TotalCount      int     `json:"total_count"`
	Progress        int     `json:"progress"`
	ConfidenceRatio float64 `json:"confidence_ratio"`
}

// SummarizeDimension averages the touched, rated topics of a dimension.
// Touched topics without a rating are excluded, not counted as zero.
func SummarizeDimension(dim assessment.Dimension, snap Snapshot) DimensionSummary {
	sum := DimensionSummary{
		DimensionID: dim.ID,
		Title:       dim.Title,
		TotalCount:  len(dim.Topics),
	}
	for _, t := range dim.Topics {
		score, ok := snap.Answered(t.ID)
		if !ok {
			continue
		}
		sum.CurrentSum += score.Current
		sum.TargetSum += score.Target
		sum.AnsweredCount++
	}
	if sum.AnsweredCount == 0 {
		return sum
	}
	n := float64(sum.AnsweredCount)
	sum.CurrentAvg = NormalizeScore(sum.CurrentSum / n)
	sum.TargetAvg = NormalizeScore(sum.TargetSum / n)
	sum.GapAvg = ClampedGap(sum.TargetAvg, sum.CurrentAvg)
	sum.Progress = percent(sum.AnsweredCount, sum.TotalCount)
	return sum
}

// SummarizeOverall sums per-topic contributions across dimensions and divides
// once, so larger dimensions weigh proportionally more.
func SummarizeOverall(dims []DimensionSummary) OverallSummary {
	var (
		out                   OverallSummary
		currentSum, targetSum float64
	)
	for _, d := range dims {
		c, t := d.sums()
		currentSum += c
		targetSum += t
		out.AnsweredCount += d.AnsweredCount
		out.TotalCount += d.TotalCount
	}
	if out.TotalCount > 0 {
		out.ConfidenceRatio = float64(percent(out.AnsweredCount, out.TotalCount)) / 100
	}
	if out.AnsweredCount == 0 {
		return out
	}
	n := float64(out.AnsweredCount)
	out.CurrentAvg = NormalizeScore(currentSum / n)
	out.TargetAvg = NormalizeScore(targetSum / n)
	out.GapAvg = ClampedGap(out.TargetAvg, out.CurrentAvg)
	out.Progress = percent(out.AnsweredCount, out.TotalCount)
	return out
}

// sums returns the raw rating sums. Summaries built elsewhere may only carry
// averages; ratings are at least 1, so zero sums with answers mean the sums
// were never filled and are rebuilt from the averages.
func (d DimensionSummary) sums() (current, target float64) {
	if d.AnsweredCount > 0 && d.CurrentSum == 0 && d.TargetSum == 0 {
		n := float64(d.AnsweredCount)
		return d.CurrentAvg * n, d.TargetAvg * n
	}
	return d.CurrentSum, d.TargetSum
}

// SummarizeAssessment runs the dimension and overall passes in order.
func SummarizeAssessment(def *assessment.Assessment, snap Snapshot) ([]DimensionSummary, OverallSummary) {
	dims := make([]DimensionSummary, 0, len(def.Dimensions))
	for _, d := range def.Dimensions {
		dims = append(dims, SummarizeDimension(d, snap))
	}
	return dims, SummarizeOverall(dims)
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
