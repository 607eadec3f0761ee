// Package maturity classifies dimension and organization scores into the four
// ordered maturity stages, applying the gap and confidence downgrade rules.
package maturity

import (
	"fmt"

	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

type Stage struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Index    int     `json:"index"`
	MinScore float64 `json:"min_score"`
}

// Stages is ordered from least to most mature; Stages[i].Index == i.
var Stages = []Stage{
	{ID: "explorer", Label: "Explorer", Index: 0, MinScore: 0},
	{ID: "structured", Label: "Structured", Index: 1, MinScore: 2},
	{ID: "integrated", Label: "Integrated", Index: 2, MinScore: 3},
	{ID: "optimized", Label: "Optimized", Index: 3, MinScore: 4},
}

// Downgrade thresholds.
const (
	DimensionGapThreshold  = 1.5
	VeryLowConfidenceRatio = 0.2
	LowConfidenceRatio     = 0.4
	MediumConfidenceRatio  = 0.7
)

type ConfidenceLabel string

const (
	ConfidenceLow    ConfidenceLabel = "Low"
	ConfidenceMedium ConfidenceLabel = "Medium"
	ConfidenceHigh   ConfidenceLabel = "High"
)

// DimensionStage is the classification of a single dimension.
type DimensionStage struct {
	DimensionID     string `json:"dimension_id"`
	Stage           Stage  `json:"stage"`
	BaseStage       Stage  `json:"base_stage"`
	DowngradeReason string `json:"downgrade_reason,omitempty"`
}

// OrganizationStage is the classification of the whole assessment.
type OrganizationStage struct {
	Stage           Stage           `json:"stage"`
	BaseStage       Stage           `json:"base_stage"`
	DowngradeReason string          `json:"downgrade_reason,omitempty"`
	ConfidenceRatio float64         `json:"confidence_ratio"`
	ConfidenceLabel ConfidenceLabel `json:"confidence_label"`
}

// BaseStageIndex evaluates the thresholds high to low; the first match wins.
func BaseStageIndex(score float64) int {
	for i := len(Stages) - 1; i > 0; i-- {
		if score >= Stages[i].MinScore {
			return i
		}
	}
	return 0
}

// StageByID looks up a stage by its id.
func StageByID(id string) (Stage, bool) {
	for _, s := range Stages {
		if s.ID == id {
			return s, true
		}
	}
	return Stage{}, false
}

// ClassifyDimension drops at most one stage when the average gap exceeds 1.5.
func ClassifyDimension(sum scoring.DimensionSummary) DimensionStage {
	base := BaseStageIndex(sum.CurrentAvg)
	out := DimensionStage{
		DimensionID: sum.DimensionID,
		Stage:       Stages[base],
		BaseStage:   Stages[base],
	}
	if sum.GapAvg > DimensionGapThreshold && base > 0 {
		out.Stage = Stages[base-1]
		out.DowngradeReason = fmt.Sprintf("Average gap of %s exceeds %.1f; held back from %s",
			scoring.FormatGap(sum.GapAvg), DimensionGapThreshold, Stages[base].Label)
	}
	return out
}

// ClassifyOrganization applies at most one confidence downgrade: two stages
// below 20% answered, otherwise one stage below 40%.
func ClassifyOrganization(overall scoring.OverallSummary) OrganizationStage {
	base := BaseStageIndex(overall.CurrentAvg)
	idx := base
	reason := ""
	ratio := overall.ConfidenceRatio

	switch {
	case ratio < VeryLowConfidenceRatio:
		if idx >= 2 {
			idx -= 2
		} else if idx == 1 {
			idx = 0
		}
		if idx != base {
			reason = fmt.Sprintf("Only %d%% of topics answered; stage lowered from %s", percent(ratio), Stages[base].Label)
		}
	case ratio < LowConfidenceRatio:
		if idx > 0 {
			idx--
			reason = fmt.Sprintf("Only %d%% of topics answered; stage lowered from %s", percent(ratio), Stages[base].Label)
		}
	}

	return OrganizationStage{
		Stage:           Stages[idx],
		BaseStage:       Stages[base],
		DowngradeReason: reason,
		ConfidenceRatio: ratio,
		ConfidenceLabel: ClassifyConfidence(ratio),
	}
}

// ClassifyConfidence labels answer coverage independently of any downgrade.
func ClassifyConfidence(ratio float64) ConfidenceLabel {
	switch {
	case ratio < LowConfidenceRatio:
		return ConfidenceLow
	case ratio < MediumConfidenceRatio:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

func percent(ratio float64) int {
	return int(scoring.RoundToStep(ratio*100, 1))
}
