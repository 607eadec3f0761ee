// Package narrative turns the maturity classification and ranked
// recommendations into a templated, ready-to-display summary.
package narrative

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/Compass/internal/maturity"
	"github.com/MikeSquared-Agency/Compass/internal/recommend"
	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

// Output caps.
const (
	MaxPriorities = 3
	MaxQuickWins  = 5
	themeWindow   = 5
)

// Input is everything the assembler reads.
type Input struct {
	Organization    maturity.OrganizationStage
	Overall         scoring.OverallSummary
	TopGaps         []scoring.TopGap
	Recommendations []recommend.Enhanced
}

// Model is fully rendered text; nothing downstream templates it further.
type Model struct {
	Headline         string     `json:"headline"`
	Theme            string     `json:"theme"`
	ExecutiveSummary string     `json:"executive_summary"`
	StageRationale   string     `json:"stage_rationale"`
	Priorities       []Priority `json:"priorities"`
	QuickWins        []QuickWin `json:"quick_wins"`
	Notes            []string   `json:"notes"`
}

type Priority struct {
	Title       string `json:"title"`
	Why         string `json:"why"`
	Theme       string `json:"theme"`
	DimensionID string `json:"dimension_id,omitempty"`
	RuleID      string `json:"rule_id,omitempty"`
}

type QuickWin struct {
	Action string `json:"action"`
	Theme  string `json:"theme"`
	RuleID string `json:"rule_id"`
}

// Assemble renders the narrative model.
func Assemble(in Input, t Templates) Model {
	theme := DominantTheme(in.Recommendations, in.TopGaps, t.ThemeMap)
	return Model{
		Headline:         headline(in.Organization, t),
		Theme:            theme,
		ExecutiveSummary: executiveSummary(in, t, theme),
		StageRationale:   stageRationale(in, t),
		Priorities:       priorities(in, t),
		QuickWins:        quickWins(in.Recommendations, t.ThemeMap),
		Notes:            notes(in.Overall.ConfidenceRatio, in.Organization.ConfidenceLabel, t),
	}
}

func headline(org maturity.OrganizationStage, t Templates) string {
	values := map[string]string{"stageLabel": org.Stage.Label}
	if org.ConfidenceLabel == maturity.ConfidenceLow {
		prefix := t.Headlines.LowConfidencePrefix
		if prefix == "" {
			prefix = defaultLowPrefix
		}
		return render(KindHeadline, prefix, values) + " potential"
	}
	tmpl := t.Headlines.ByStageID[org.Stage.ID]
	if tmpl == "" {
		tmpl = t.Headlines.ByStageID["default"]
	}
	if tmpl == "" {
		tmpl = defaultHeadline
	}
	return render(KindHeadline, tmpl, values)
}

// DominantTheme counts mapped tag labels across the top recommendations. The
// most frequent label wins and ties go to the first seen. Without any mapped
// tag it falls back to the largest gap's dimension.
func DominantTheme(recs []recommend.Enhanced, gaps []scoring.TopGap, themeMap map[string]string) string {
	if len(recs) > themeWindow {
		recs = recs[:themeWindow]
	}
	counts := make(map[string]int)
	var order []string
	for _, r := range recs {
		for _, tag := range r.Tags {
			label, ok := themeMap[tag]
			if !ok {
				continue
			}
			if counts[label] == 0 {
				order = append(order, label)
			}
			counts[label]++
		}
	}
	best := ""
	for _, label := range order {
		if best == "" || counts[label] > counts[best] {
			best = label
		}
	}
	if best != "" {
		return best
	}
	if len(gaps) > 0 && gaps[0].DimensionTitle != "" {
		return gaps[0].DimensionTitle
	}
	return fallbackTheme
}

// recommendationTheme is the label of the first mapped tag, else the dimension.
func recommendationTheme(r recommend.Enhanced, themeMap map[string]string) string {
	for _, tag := range r.Tags {
		if label, ok := themeMap[tag]; ok {
			return label
		}
	}
	return r.DimensionTitle
}

func executiveSummary(in Input, t Templates, theme string) string {
	values := map[string]string{
		"stageLabel": in.Organization.Stage.Label,
		"currentAvg": formatAvg(in.Overall.CurrentAvg),
		"theme":      theme,
		"gapAvg":     scoring.FormatGap(in.Overall.GapAvg),
	}
	var sentences []string
	for _, tmpl := range t.ExecutiveSummary {
		if s := render(KindSummary, tmpl, values); s != "" {
			sentences = append(sentences, s)
		}
	}
	return strings.Join(sentences, " ")
}

func stageRationale(in Input, t Templates) string {
	tmpl := t.StageRationale
	if tmpl == "" {
		tmpl = defaultStageRationale
	}
	text := render(KindRationale, tmpl, map[string]string{
		"stageLabel":      in.Organization.Stage.Label,
		"currentAvg":      formatAvg(in.Overall.CurrentAvg),
		"confidenceLabel": strings.ToLower(string(in.Organization.ConfidenceLabel)),
	})
	if in.Organization.DowngradeReason != "" {
		text += " " + in.Organization.DowngradeReason + "."
	}
	return text
}

// priorities picks up to three recommendations, first one per theme, then
// one per title, then falls back to the largest topic gaps.
func priorities(in Input, t Templates) []Priority {
	whyTmpl := t.PriorityWhyTemplate
	if whyTmpl == "" {
		whyTmpl = defaultPriorityWhy
	}
	why := func(gap float64, dimension, theme string) string {
		return render(KindPriorityWhy, whyTmpl, map[string]string{
			"gap":            scoring.FormatGap(gap),
			"dimensionTitle": dimension,
			"theme":          theme,
		})
	}

	out := make([]Priority, 0, MaxPriorities)
	usedThemes := make(map[string]bool)
	usedTitles := make(map[string]bool)
	add := func(r recommend.Enhanced, theme string) {
		out = append(out, Priority{
			Title:       r.Title,
			Why:         why(r.Gap, r.DimensionTitle, theme),
			Theme:       theme,
			DimensionID: r.DimensionID,
			RuleID:      r.RuleID,
		})
		usedThemes[theme] = true
		usedTitles[r.Title] = true
	}

	for _, r := range in.Recommendations {
		if len(out) == MaxPriorities {
			return out
		}
		theme := recommendationTheme(r, t.ThemeMap)
		if usedThemes[theme] {
			continue
		}
		add(r, theme)
	}
	for _, r := range in.Recommendations {
		if len(out) == MaxPriorities {
			return out
		}
		if usedTitles[r.Title] {
			continue
		}
		add(r, recommendationTheme(r, t.ThemeMap))
	}
	for _, g := range in.TopGaps {
		if len(out) == MaxPriorities {
			return out
		}
		title := "Strengthen " + g.TopicLabel
		if usedTitles[title] {
			continue
		}
		usedTitles[title] = true
		out = append(out, Priority{
			Title:       title,
			Why:         why(g.Gap, g.DimensionTitle, g.DimensionTitle),
			Theme:       g.DimensionTitle,
			DimensionID: g.DimensionID,
		})
	}
	return out
}

// quickWins takes one action per theme, then fills the remaining slots with
// any unused action text.
func quickWins(recs []recommend.Enhanced, themeMap map[string]string) []QuickWin {
	out := make([]QuickWin, 0, MaxQuickWins)
	usedThemes := make(map[string]bool)
	usedActions := make(map[string]bool)

	for _, r := range recs {
		if len(out) == MaxQuickWins {
			return out
		}
		theme := recommendationTheme(r, themeMap)
		if usedThemes[theme] {
			continue
		}
		action := actions(r)[0]
		if usedActions[action] {
			continue
		}
		usedThemes[theme] = true
		usedActions[action] = true
		out = append(out, QuickWin{Action: action, Theme: theme, RuleID: r.RuleID})
	}
	for _, r := range recs {
		for _, action := range actions(r) {
			if len(out) == MaxQuickWins {
				return out
			}
			if usedActions[action] {
				continue
			}
			usedActions[action] = true
			out = append(out, QuickWin{Action: action, Theme: recommendationTheme(r, themeMap), RuleID: r.RuleID})
		}
	}
	return out
}

func actions(r recommend.Enhanced) []string {
	if len(r.ActionItems) > 0 {
		return r.ActionItems
	}
	return []string{r.Title}
}

func notes(ratio float64, label maturity.ConfidenceLabel, t Templates) []string {
	values := map[string]string{
		"confidenceLabel":   strings.ToLower(string(label)),
		"confidencePercent": strconv.Itoa(int(scoring.RoundToStep(ratio*100, 1))),
	}
	out := make([]string, 0, len(t.Notes.General)+1)
	for _, tmpl := range t.Notes.General {
		if s := render(KindNote, tmpl, values); s != "" {
			out = append(out, s)
		}
	}
	var note string
	switch {
	case ratio < maturity.LowConfidenceRatio:
		note = t.Notes.LowConfidence
	case ratio < maturity.MediumConfidenceRatio:
		note = t.Notes.ModerateConfidence
	}
	if s := render(KindNote, note, values); s != "" {
		out = append(out, s)
	}
	return out
}

func formatAvg(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
