// Package report runs the full evaluation pipeline over one response
// snapshot and collects every engine output into a single Report.
package report

import (
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/Compass/internal/assessment"
	"github.com/MikeSquared-Agency/Compass/internal/maturity"
	"github.com/MikeSquared-Agency/Compass/internal/narrative"
	"github.com/MikeSquared-Agency/Compass/internal/recommend"
	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

// Options tunes ranking limits and weights. Zero values fall back to the
// package defaults.
type Options struct {
	TopGapsLimit          int
	TopTopicsLimit        int
	BubbleLimit           int
	PriorityWeights       scoring.PriorityWeights
	RecommendationWeights recommend.PriorityWeights
}

// DefaultOptions returns the stock limits and weights.
func DefaultOptions() Options {
	return Options{
		TopGapsLimit:          scoring.DefaultTopGapsLimit,
		TopTopicsLimit:        scoring.DefaultTopTopicsLimit,
		BubbleLimit:           recommend.DefaultBubbleLimit,
		PriorityWeights:       scoring.DefaultPriorityWeights(),
		RecommendationWeights: recommend.DefaultPriorityWeights(),
	}
}

// Dimension pairs a dimension summary with its maturity stage.
type Dimension struct {
	scoring.DimensionSummary
	Maturity maturity.DimensionStage `json:"maturity"`
}

type Report struct {
	AssessmentID    string                        `json:"assessment_id"`
	Dimensions      []Dimension                   `json:"dimensions"`
	Overall         scoring.OverallSummary        `json:"overall"`
	Organization    maturity.OrganizationStage    `json:"organization"`
	TopGaps         []scoring.TopGap              `json:"top_gaps"`
	TopTopics       []scoring.TopTopic            `json:"top_topics"`
	Comparisons     []scoring.DimensionComparison `json:"comparisons"`
	Recommendations []recommend.Enhanced          `json:"recommendations"`
	Bubbles         []recommend.Bubble            `json:"bubbles"`
	Narrative       narrative.Model               `json:"narrative"`
	GeneratedAt     time.Time                     `json:"generated_at"`
}

// TopRecommendation returns the highest ranked recommendation, if any.
func (r *Report) TopRecommendation() (recommend.Enhanced, bool) {
	if len(r.Recommendations) == 0 {
		return recommend.Enhanced{}, false
	}
	return r.Recommendations[0], true
}

// Builder is safe for concurrent use; it holds no per-report state.
type Builder struct {
	opts     Options
	analyzer *scoring.Analyzer
	engine   *recommend.Engine
	logger   *slog.Logger
	now      func() time.Time
}

// NewBuilder creates a Builder. Zero limits and zero-sum weight sets are
// replaced with defaults.
func NewBuilder(opts Options, logger *slog.Logger) *Builder {
	defaults := DefaultOptions()
	if opts.TopGapsLimit <= 0 {
		opts.TopGapsLimit = defaults.TopGapsLimit
	}
	if opts.TopTopicsLimit <= 0 {
		opts.TopTopicsLimit = defaults.TopTopicsLimit
	}
	if opts.BubbleLimit <= 0 {
		opts.BubbleLimit = defaults.BubbleLimit
	}
	if opts.PriorityWeights.Sum() == 0 {
		opts.PriorityWeights = defaults.PriorityWeights
	}
	if opts.RecommendationWeights.Sum() == 0 {
		opts.RecommendationWeights = defaults.RecommendationWeights
	}
	return &Builder{
		opts:     opts,
		analyzer: scoring.NewAnalyzer(opts.PriorityWeights),
		engine:   recommend.NewEngine(opts.RecommendationWeights),
		logger:   logger,
		now:      time.Now,
	}
}

// Build evaluates snap against def. rules may be nil, in which case the
// report carries no recommendations or bubbles.
func (b *Builder) Build(def *assessment.Assessment, snap scoring.Snapshot, rules *recommend.RuleSet, templates narrative.Templates) *Report {
	summaries, overall := scoring.SummarizeAssessment(def, snap)

	dims := make([]Dimension, 0, len(summaries))
	results := make([]recommend.DimensionResult, 0, len(summaries))
	for _, s := range summaries {
		dims = append(dims, Dimension{DimensionSummary: s, Maturity: maturity.ClassifyDimension(s)})
		if s.AnsweredCount == 0 {
			continue
		}
		results = append(results, recommend.DimensionResult{
			DimensionID: s.DimensionID,
			Title:       s.Title,
			Score:       s.CurrentAvg,
			Gap:         s.GapAvg,
		})
	}

	org := maturity.ClassifyOrganization(overall)
	topGaps := b.analyzer.TopGaps(def, snap, b.opts.TopGapsLimit)
	recs := b.engine.Recommend(results, rules)

	var colors map[string]string
	if rules != nil {
		colors = rules.Metadata.DimensionColors
		if len(templates.ThemeMap) == 0 {
			templates.ThemeMap = rules.Metadata.ThemeMap
		}
	}

	r := &Report{
		AssessmentID:    def.ID,
		Dimensions:      dims,
		Overall:         overall,
		Organization:    org,
		TopGaps:         topGaps,
		TopTopics:       b.analyzer.TopTopics(def, snap, b.opts.TopTopicsLimit),
		Comparisons:     scoring.CompareDimensions(def, snap),
		Recommendations: recs,
		Bubbles:         recommend.Layout(recs, colors, b.opts.BubbleLimit),
		Narrative: narrative.Assemble(narrative.Input{
			Organization:    org,
			Overall:         overall,
			TopGaps:         topGaps,
			Recommendations: recs,
		}, templates),
		GeneratedAt: b.now().UTC(),
	}

	b.logger.Debug("report built",
		"assessment_id", def.ID,
		"answered", overall.AnsweredCount,
		"total", overall.TotalCount,
		"stage", org.Stage.ID,
		"recommendations", len(recs),
	)
	return r
}
