package definition

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Compass/internal/narrative"
	"github.com/MikeSquared-Agency/Compass/internal/recommend"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const minimalAssessment = `
id: mini
title: Mini
dimensions:
  - id: strategy
    title: Strategy
    topics:
      - id: s1
        label: Vision
        levels: [a, b, c, d, e]
`

const minimalRules = `
metadata:
  theme_map:
    gov: Governance
rules:
  strategy:
    - id: s-low
      title: Write a vision
      tags: [gov]
      score: {max: 3}
      gap: {min: 0.5}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeDefinitions(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, filepath.Join(dir, name), content)
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{
		"assessments/mini.yaml": minimalAssessment,
		"rules.yaml":            minimalRules,
		"narrative.yaml":        "stage_rationale: \"At {stageLabel}.\"\n",
	})

	c, err := Load(dir)
	require.NoError(t, err)

	def, ok := c.Assessment("mini")
	require.True(t, ok)
	assert.Equal(t, 1, def.TopicCount())
	assert.Len(t, c.Assessments(), 1)

	require.Len(t, c.Rules.Rules["strategy"], 1)
	rule := c.Rules.Rules["strategy"][0]
	assert.Equal(t, 3.0, *rule.Score.Max)
	assert.Nil(t, rule.Score.Min)
	assert.Equal(t, 0.5, *rule.Gap.Min)
	assert.Equal(t, "Governance", c.Rules.Metadata.ThemeMap["gov"])

	// Partial narrative files keep the remaining defaults.
	assert.Equal(t, "At {stageLabel}.", c.Templates.StageRationale)
	assert.Equal(t, narrative.DefaultTemplates().ExecutiveSummary, c.Templates.ExecutiveSummary)
}

func TestLoadOptionalFiles(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"assessments/mini.yml": minimalAssessment})

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, c.Rules.Rules)
	assert.Equal(t, narrative.DefaultTemplates(), c.Templates)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "no assessments",
			files:   map[string]string{"rules.yaml": minimalRules},
			wantErr: "read assessments dir",
		},
		{
			name:    "malformed yaml",
			files:   map[string]string{"assessments/bad.yaml": "id: [unterminated"},
			wantErr: "parse bad.yaml",
		},
		{
			name: "duplicate assessment ids",
			files: map[string]string{
				"assessments/a.yaml": minimalAssessment,
				"assessments/b.yaml": minimalAssessment,
			},
			wantErr: `duplicate assessment id "mini"`,
		},
		{
			name: "unknown placeholder",
			files: map[string]string{
				"assessments/mini.yaml": minimalAssessment,
				"narrative.yaml":        "stage_rationale: \"{organization} is {stageLabel}\"\n",
			},
			wantErr: "unknown placeholder",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeDefinitions(t, tt.files)
			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAssessment(t *testing.T) {
	const broken = `
id: broken
dimensions:
  - id: strategy
    topics:
      - id: s1
        levels: [a, b, c]
      - id: s1
        levels: [a, b, c, d, e]
  - id: strategy
    topics: []
`
	dir := writeDefinitions(t, map[string]string{"assessments/broken.yaml": broken})
	_, err := Load(dir)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `topic "s1" has 3 levels, want 5`)
	assert.Contains(t, msg, `duplicate topic id "s1"`)
	assert.Contains(t, msg, `duplicate dimension id "strategy"`)
	assert.Contains(t, msg, `dimension "strategy" has no topics`)
}

func TestValidateRules(t *testing.T) {
	lo, hi := 3.0, 2.0
	weight := 1.5
	rs := &recommend.RuleSet{
		Rules: map[string][]recommend.Rule{
			"strategy": {
				{ID: "a", Score: recommend.Range{Min: &lo, Max: &hi}},
				{ID: "a", Category: "Moonshot"},
				{Title: "no id"},
			},
		},
		Metadata: recommend.Metadata{DimensionWeights: map[string]float64{"strategy": weight}},
	}
	err := validateRules(rs)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "score min 3.00 exceeds max 2.00")
	assert.Contains(t, msg, `duplicate rule id "a"`)
	assert.Contains(t, msg, `unknown category "Moonshot"`)
	assert.Contains(t, msg, "strategy[2]: missing id")
	assert.Contains(t, msg, "outside [0, 1]")
}

func TestShippedDefinitionsLoad(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "definitions"))
	require.NoError(t, err)
	def, ok := c.Assessment("ai-readiness")
	require.True(t, ok)
	assert.Len(t, def.Dimensions, 4)
	assert.NotEmpty(t, c.Rules.Rules)
}

func TestRegistryReload(t *testing.T) {
	dir := writeDefinitions(t, map[string]string{"assessments/mini.yaml": minimalAssessment})
	reg, err := NewRegistry(dir, discardLogger())
	require.NoError(t, err)
	first := reg.Catalog()
	assert.Empty(t, first.Rules.Rules)

	writeFile(t, filepath.Join(dir, RulesFile), minimalRules)
	c, err := reg.Reload()
	require.NoError(t, err)
	assert.Same(t, c, reg.Catalog())
	assert.Len(t, reg.Catalog().Rules.Rules["strategy"], 1)

	// A broken reload keeps the previous catalog.
	writeFile(t, filepath.Join(dir, RulesFile), "rules: [")
	_, err = reg.Reload()
	require.Error(t, err)
	assert.Same(t, c, reg.Catalog())
}

func TestStaticRegistry(t *testing.T) {
	c, err := NewCatalog(nil, nil, narrative.DefaultTemplates())
	require.NoError(t, err)
	reg := NewStaticRegistry(c, discardLogger())

	got, err := reg.Reload()
	require.NoError(t, err)
	assert.Same(t, c, got)
	assert.NotNil(t, got.Rules)
}
