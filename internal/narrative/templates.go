package narrative

import (
	"errors"
	"fmt"
)

type Templates struct {
	Headlines           Headlines         `json:"headlines" yaml:"headlines"`
	ExecutiveSummary    []string          `json:"executive_summary" yaml:"executive_summary"`
	StageRationale      string            `json:"stage_rationale" yaml:"stage_rationale"`
	ThemeMap            map[string]string `json:"theme_map,omitempty" yaml:"theme_map,omitempty"`
	PriorityWhyTemplate string            `json:"priority_why_template,omitempty" yaml:"priority_why_template,omitempty"`
	Notes               Notes             `json:"notes" yaml:"notes"`
}

type Headlines struct {
	ByStageID           map[string]string `json:"by_stage_id" yaml:"by_stage_id"`
	LowConfidencePrefix string            `json:"low_confidence_prefix" yaml:"low_confidence_prefix"`
}

type Notes struct {
	General            []string `json:"general,omitempty" yaml:"general,omitempty"`
	LowConfidence      string   `json:"low_confidence" yaml:"low_confidence"`
	ModerateConfidence string   `json:"moderate_confidence" yaml:"moderate_confidence"`
}

const (
	defaultHeadline       = "Your organization is at the {stageLabel} stage"
	defaultLowPrefix      = "Early signals point to {stageLabel}"
	defaultPriorityWhy    = "Closing the {gap}-point gap in {dimensionTitle} moves {theme} forward."
	defaultStageRationale = "An average current rating of {currentAvg} places the organization at {stageLabel} with {confidenceLabel} confidence."
	fallbackTheme         = "General Readiness"
)

// DefaultTemplates is used when no narrative definition is supplied.
func DefaultTemplates() Templates {
	return Templates{
		Headlines: Headlines{
			ByStageID: map[string]string{
				"explorer":   "Laying the groundwork: {stageLabel} stage",
				"structured": "Building structure: {stageLabel} stage",
				"integrated": "Scaling what works: {stageLabel} stage",
				"optimized":  "Leading the field: {stageLabel} stage",
				"default":    defaultHeadline,
			},
			LowConfidencePrefix: defaultLowPrefix,
		},
		ExecutiveSummary: []string{
			"The organization currently operates at the {stageLabel} stage.",
			"Average current capability is {currentAvg} out of 5, with {theme} emerging as the central theme.",
			"Closing the average gap of {gapAvg} points is the main lever for progress.",
		},
		StageRationale:      defaultStageRationale,
		PriorityWhyTemplate: defaultPriorityWhy,
		Notes: Notes{
			LowConfidence:      "Only {confidencePercent}% of topics were answered; treat these results as directional.",
			ModerateConfidence: "{confidencePercent}% of topics were answered; completing the rest will sharpen the picture.",
		},
	}
}

// Validate checks every template against its placeholder vocabulary.
func (t Templates) Validate() error {
	var errs []error
	check := func(kind Kind, name, tmpl string) {
		if err := Check(kind, tmpl); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	for id, tmpl := range t.Headlines.ByStageID {
		check(KindHeadline, "headlines."+id, tmpl)
	}
	check(KindHeadline, "headlines.low_confidence_prefix", t.Headlines.LowConfidencePrefix)
	for i, tmpl := range t.ExecutiveSummary {
		check(KindSummary, fmt.Sprintf("executive_summary[%d]", i), tmpl)
	}
	check(KindRationale, "stage_rationale", t.StageRationale)
	check(KindPriorityWhy, "priority_why_template", t.PriorityWhyTemplate)
	for i, tmpl := range t.Notes.General {
		check(KindNote, fmt.Sprintf("notes.general[%d]", i), tmpl)
	}
	check(KindNote, "notes.low_confidence", t.Notes.LowConfidence)
	check(KindNote, "notes.moderate_confidence", t.Notes.ModerateConfidence)
	return errors.Join(errs...)
}
