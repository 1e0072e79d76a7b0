package generate

import (
	"strings"

	"github.com/chriserin/stepgen/internal/parser"
)

const (
	featureTag = "stepgen:feature"
	stepTag    = "stepgen:step"
)

func featureMarker(t *Template, name string) string {
	return t.Comment + " " + featureTag + " " + name
}

func stepMarker(t *Template, s parser.Step) string {
	return t.MarkerIndent + t.Comment + " " + stepTag + " " + s.Sentence()
}

// FeatureGroup is what an existing step definition file already implements
// for one feature.
type FeatureGroup struct {
	FeatureName string
	Steps       []parser.Step
}

// ParseExisting recovers the feature groups of a step definition file
// written by StepDefinitions with the same template. Only marker lines are
// read, so stub bodies may have been edited freely. Anything it does not
// recognize is skipped.
func ParseExisting(t *Template, lines []string) []FeatureGroup {
	var groups []FeatureGroup
	index := make(map[string]int)
	seen := make(map[string]map[parser.Step]struct{})
	current := -1

	for _, line := range lines {
		body, ok := strings.CutPrefix(strings.TrimSpace(line), t.Comment)
		if !ok {
			continue
		}
		body = strings.TrimSpace(body)

		if name, ok := cutTag(body, featureTag); ok {
			if name == "" {
				current = -1
				continue
			}
			i, known := index[name]
			if !known {
				i = len(groups)
				index[name] = i
				groups = append(groups, FeatureGroup{FeatureName: name})
				seen[name] = make(map[parser.Step]struct{})
			}
			current = i
			continue
		}

		sentence, ok := cutTag(body, stepTag)
		if !ok || current < 0 {
			continue
		}
		s, ok := parseSentence(sentence)
		if !ok {
			continue
		}
		g := &groups[current]
		if _, dup := seen[g.FeatureName][s]; dup {
			continue
		}
		seen[g.FeatureName][s] = struct{}{}
		g.Steps = append(g.Steps, s)
	}
	return groups
}

// FindGroup returns the group recorded for a feature, if any.
func FindGroup(groups []FeatureGroup, feature string) (FeatureGroup, bool) {
	for _, g := range groups {
		if g.FeatureName == feature {
			return g, true
		}
	}
	return FeatureGroup{}, false
}

func cutTag(body, tag string) (string, bool) {
	rest, ok := strings.CutPrefix(body, tag)
	if !ok {
		return "", false
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func parseSentence(sentence string) (parser.Step, bool) {
	keyword, text, _ := strings.Cut(sentence, " ")
	category, ok := parser.ParseCategory(keyword)
	if !ok {
		return parser.Step{}, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return parser.Step{}, false
	}
	return parser.Step{Category: category, Keyword: keyword, Text: text}, true
}
