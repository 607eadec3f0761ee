package narrative

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Kind selects the placeholder vocabulary a template may use.
type Kind string

const (
	KindHeadline    Kind = "headline"
	KindSummary     Kind = "summary"
	KindPriorityWhy Kind = "priorityWhy"
	KindRationale   Kind = "rationale"
	KindNote        Kind = "note"
)

var allowedKeys = map[Kind]map[string]bool{
	KindHeadline:    set("stageLabel"),
	KindSummary:     set("stageLabel", "currentAvg", "theme", "gapAvg"),
	KindPriorityWhy: set("gap", "dimensionTitle", "theme"),
	KindRationale:   set("stageLabel", "currentAvg", "confidenceLabel"),
	KindNote:        set("confidenceLabel", "confidencePercent"),
}

// ErrUnknownPlaceholder reports placeholders outside a template kind's vocabulary.
var ErrUnknownPlaceholder = errors.New("unknown placeholder")

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z][A-Za-z0-9_]*)\}`)

// Format substitutes {name} placeholders. Unknown placeholders are dropped
// from the output and reported through ErrUnknownPlaceholder; known ones
// without a value render empty.
func Format(kind Kind, tmpl string, values map[string]string) (string, error) {
	allowed := allowedKeys[kind]
	var unknown []string
	out := placeholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		if !allowed[key] {
			unknown = append(unknown, key)
			return ""
		}
		return values[key]
	})
	out = strings.Join(strings.Fields(out), " ")
	if len(unknown) > 0 {
		return out, fmt.Errorf("%w in %s template: %s", ErrUnknownPlaceholder, kind, strings.Join(unknown, ", "))
	}
	return out, nil
}

// Check validates a template without rendering it.
func Check(kind Kind, tmpl string) error {
	_, err := Format(kind, tmpl, nil)
	return err
}

// AllowedKeys lists the placeholders a kind accepts, sorted.
func AllowedKeys(kind Kind) []string {
	var keys []string
	for k := range allowedKeys[kind] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func render(kind Kind, tmpl string, values map[string]string) string {
	out, _ := Format(kind, tmpl, values)
	return out
}

func set(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}
