package scoring

import (
	"math"
	"sort"

	"github.com/MikeSquared-Agency/Compass/internal/assessment"
)

// Default ranking limits.
const (
	DefaultTopGapsLimit   = 5
	DefaultTopTopicsLimit = 10
)

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNegative Trend = "negative"
	TrendNeutral  Trend = "neutral"
)

// TopicInsight is a ranked record over one answered topic.
type TopicInsight struct {
	TopicID        string    `json:"topic_id"`
	TopicLabel     string    `json:"topic_label"`
	DimensionID    string    `json:"dimension_id"`
	DimensionTitle string    `json:"dimension_title"`
	Current        float64   `json:"current"`
	Target         float64   `json:"target"`
	Gap            float64   `json:"gap"`
	PriorityScore  float64   `json:"priority_score"`
	RiskLevel      RiskLevel `json:"risk_level"`
}

type (
	TopGap   = TopicInsight
	TopTopic = TopicInsight
)

// DimensionComparison is the gap-analysis view of a dimension. Gap keeps its
// sign here, unlike DimensionSummary.GapAvg.
type DimensionComparison struct {
	DimensionID string  `json:"dimension_id"`
	Title       string  `json:"title"`
	Current     float64 `json:"current"`
	Target      float64 `json:"target"`
	Gap         float64 `json:"gap"`
	Variance    float64 `json:"variance"`
	Trend       Trend   `json:"trend"`
}

// Analyzer ranks topics with a configurable priority blend.
type Analyzer struct {
	weights PriorityWeights
}

// NewAnalyzer creates an Analyzer with the given weights.
func NewAnalyzer(weights PriorityWeights) *Analyzer {
	return &Analyzer{weights: weights}
}

// PriorityScore uses the default 40/30/30 blend.
func PriorityScore(current, target, gap float64) float64 {
	return priorityScore(current, target, gap, DefaultPriorityWeights())
}

func (a *Analyzer) PriorityScore(current, target, gap float64) float64 {
	return priorityScore(current, target, gap, a.weights)
}

func priorityScore(current, target, gap float64, w PriorityWeights) float64 {
	var total float64
	for _, f := range ExplainPriority(current, target, gap, w) {
		total += f.Weighted
	}
	return RoundToStep(math.Max(0, total), 0.1)
}

// ClassifyRisk evaluates the thresholds in order; the first match wins.
func ClassifyRisk(current, gap float64) RiskLevel {
	switch {
	case current <= 2.0 || gap >= 2.0:
		return RiskHigh
	case current <= 3.5 || gap >= 1.0:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Insights returns one record per answered topic in definition order.
func (a *Analyzer) Insights(def *assessment.Assessment, snap Snapshot) []TopicInsight {
	var out []TopicInsight
	for _, d := range def.Dimensions {
		for _, t := range d.Topics {
			score, ok := snap.Answered(t.ID)
			if !ok {
				continue
			}
			gap := ClampedGap(score.Target, score.Current)
			out = append(out, TopicInsight{
				TopicID:        t.ID,
				TopicLabel:     t.Label,
				DimensionID:    d.ID,
				DimensionTitle: d.Title,
				Current:        score.Current,
				Target:         score.Target,
				Gap:            gap,
				PriorityScore:  a.PriorityScore(score.Current, score.Target, gap),
				RiskLevel:      ClassifyRisk(score.Current, gap),
			})
		}
	}
	return out
}

// TopGaps returns answered topics ordered by descending gap. Ties keep
// definition order. limit <= 0 uses DefaultTopGapsLimit.
func (a *Analyzer) TopGaps(def *assessment.Assessment, snap Snapshot, limit int) []TopGap {
	if limit <= 0 {
		limit = DefaultTopGapsLimit
	}
	items := a.Insights(def, snap)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Gap > items[j].Gap })
	return truncate(items, limit)
}

// TopTopics returns answered topics ordered by descending priority score.
// Ties keep definition order. limit <= 0 uses DefaultTopTopicsLimit.
func (a *Analyzer) TopTopics(def *assessment.Assessment, snap Snapshot, limit int) []TopTopic {
	if limit <= 0 {
		limit = DefaultTopTopicsLimit
	}
	items := a.Insights(def, snap)
	sort.SliceStable(items, func(i, j int) bool { return items[i].PriorityScore > items[j].PriorityScore })
	return truncate(items, limit)
}

// CompareDimensions sorts dimensions by descending signed gap for trend display.
func CompareDimensions(def *assessment.Assessment, snap Snapshot) []DimensionComparison {
	out := make([]DimensionComparison, 0, len(def.Dimensions))
	for _, d := range def.Dimensions {
		s := SummarizeDimension(d, snap)
		gap := SignedGap(s.TargetAvg, s.CurrentAvg)
		variance := currentVariance(d, snap)
		out = append(out, DimensionComparison{
			DimensionID: d.ID,
			Title:       d.Title,
			Current:     s.CurrentAvg,
			Target:      s.TargetAvg,
			Gap:         gap,
			Variance:    variance,
			Trend:       ClassifyTrend(gap, variance),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Gap > out[j].Gap })
	return out
}

// ClassifyTrend maps a signed gap and rating variance to a display trend.
func ClassifyTrend(gap, variance float64) Trend {
	switch {
	case gap > 0.5 && variance < 0.5:
		return TrendPositive
	case gap < -0.5 || variance > 1.0:
		return TrendNegative
	default:
		return TrendNeutral
	}
}

// currentVariance is the population variance of the answered current ratings.
func currentVariance(d assessment.Dimension, snap Snapshot) float64 {
	var values []float64
	for _, t := range d.Topics {
		if score, ok := snap.Answered(t.ID); ok {
			values = append(values, score.Current)
		}
	}
	if len(values) < 2 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return sq / float64(len(values))
}

func truncate(items []TopicInsight, limit int) []TopicInsight {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
