// Package definition loads assessment trees, the recommendation rule table
// and narrative templates from a directory of YAML files.
package definition

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Compass/internal/assessment"
	"github.com/MikeSquared-Agency/Compass/internal/narrative"
	"github.com/MikeSquared-Agency/Compass/internal/recommend"
)

// File layout under the definitions directory.
const (
	AssessmentsDir = "assessments"
	RulesFile      = "rules.yaml"
	NarrativeFile  = "narrative.yaml"
)

// Catalog is an immutable, loaded set of definitions.
type Catalog struct {
	assessments map[string]*assessment.Assessment
	ids         []string

	Rules     *recommend.RuleSet
	Templates narrative.Templates
}

// NewCatalog assembles a catalog from in-memory definitions. A nil rule set
// is replaced with an empty one.
func NewCatalog(defs []*assessment.Assessment, rules *recommend.RuleSet, templates narrative.Templates) (*Catalog, error) {
	c := &Catalog{
		assessments: make(map[string]*assessment.Assessment, len(defs)),
		Rules:       rules,
		Templates:   templates,
	}
	if c.Rules == nil {
		c.Rules = &recommend.RuleSet{}
	}
	for _, def := range defs {
		if _, dup := c.assessments[def.ID]; dup {
			return nil, fmt.Errorf("duplicate assessment id %q", def.ID)
		}
		c.assessments[def.ID] = def
		c.ids = append(c.ids, def.ID)
	}
	sort.Strings(c.ids)
	return c, nil
}

// Load reads every assessments/*.yaml file plus the optional rules.yaml and
// narrative.yaml. Missing narrative fields keep their defaults. The result
// is validated before it is returned.
func Load(dir string) (*Catalog, error) {
	paths, err := assessmentFiles(filepath.Join(dir, AssessmentsDir))
	if err != nil {
		return nil, err
	}
	defs := make([]*assessment.Assessment, 0, len(paths))
	for _, p := range paths {
		def := &assessment.Assessment{}
		if err := readYAML(p, def); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	rules := &recommend.RuleSet{}
	if err := readOptionalYAML(filepath.Join(dir, RulesFile), rules); err != nil {
		return nil, err
	}
	templates := narrative.DefaultTemplates()
	if err := readOptionalYAML(filepath.Join(dir, NarrativeFile), &templates); err != nil {
		return nil, err
	}

	c, err := NewCatalog(defs, rules, templates)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate definitions in %s: %w", dir, err)
	}
	return c, nil
}

func assessmentFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read assessments dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no assessment definitions in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readOptionalYAML(path string, v any) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return readYAML(path, v)
}

// Assessment looks up a definition by id.
func (c *Catalog) Assessment(id string) (*assessment.Assessment, bool) {
	def, ok := c.assessments[id]
	return def, ok
}

// Assessments returns every definition ordered by id.
func (c *Catalog) Assessments() []*assessment.Assessment {
	out := make([]*assessment.Assessment, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.assessments[id])
	}
	return out
}

// Validate checks structural correctness of every definition, rule and
// template and reports all problems at once.
func (c *Catalog) Validate() error {
	var errs []error
	for _, id := range c.ids {
		if err := validateAssessment(c.assessments[id]); err != nil {
			errs = append(errs, err)
		}
	}
	if err := validateRules(c.Rules); err != nil {
		errs = append(errs, err)
	}
	if err := c.Templates.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("narrative: %w", err))
	}
	return errors.Join(errs...)
}

func validateAssessment(def *assessment.Assessment) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("assessment %q: "+format, append([]any{def.ID}, args...)...))
	}
	if strings.TrimSpace(def.ID) == "" {
		fail("missing id")
	}
	if len(def.Dimensions) == 0 {
		fail("no dimensions")
	}
	dimIDs := make(map[string]bool)
	topicIDs := make(map[string]bool)
	for _, d := range def.Dimensions {
		if d.ID == "" {
			fail("dimension %q has no id", d.Title)
		} else if dimIDs[d.ID] {
			fail("duplicate dimension id %q", d.ID)
		}
		dimIDs[d.ID] = true
		if len(d.Topics) == 0 {
			fail("dimension %q has no topics", d.ID)
		}
		for _, t := range d.Topics {
			if t.ID == "" {
				fail("dimension %q: topic %q has no id", d.ID, t.Label)
				continue
			}
			if topicIDs[t.ID] {
				fail("duplicate topic id %q", t.ID)
			}
			topicIDs[t.ID] = true
			if len(t.Levels) != assessment.LevelCount {
				fail("topic %q has %d levels, want %d", t.ID, len(t.Levels), assessment.LevelCount)
			}
		}
	}
	return errors.Join(errs...)
}

func validateRules(rs *recommend.RuleSet) error {
	var errs []error
	seen := make(map[string]bool)
	dims := make([]string, 0, len(rs.Rules))
	for dim := range rs.Rules {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	for _, dim := range dims {
		for i, r := range rs.Rules[dim] {
			if r.ID == "" {
				errs = append(errs, fmt.Errorf("rules %s[%d]: missing id", dim, i))
				continue
			}
			if seen[r.ID] {
				errs = append(errs, fmt.Errorf("rules: duplicate rule id %q", r.ID))
			}
			seen[r.ID] = true
			for name, rg := range map[string]recommend.Range{"score": r.Score, "target": r.Target, "gap": r.Gap} {
				if rg.Min != nil && rg.Max != nil && *rg.Min > *rg.Max {
					errs = append(errs, fmt.Errorf("rule %q: %s min %.2f exceeds max %.2f", r.ID, name, *rg.Min, *rg.Max))
				}
			}
			switch r.Category {
			case "", recommend.CategoryQuickWin, recommend.CategoryBigBet, recommend.CategoryProject:
			default:
				errs = append(errs, fmt.Errorf("rule %q: unknown category %q", r.ID, r.Category))
			}
		}
	}
	for dim, w := range rs.Metadata.DimensionWeights {
		if w < 0 || w > 1 {
			errs = append(errs, fmt.Errorf("rules metadata: weight %.2f for %q outside [0, 1]", w, dim))
		}
	}
	return errors.Join(errs...)
}
