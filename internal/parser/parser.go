package parser

import (
	"fmt"
	"strings"
	"unicode"
)

type lineKind int

const (
	lineOther lineKind = iota
	lineFeature
	lineScenario
	lineUnsupported
)

// Order matters: "Scenario Outline:" must be checked before "Scenario:".
var markers = []struct {
	prefix string
	kind   lineKind
}{
	{"Feature:", lineFeature},
	{"Scenario Outline:", lineUnsupported},
	{"Scenario Template:", lineUnsupported},
	{"Scenario:", lineScenario},
	{"Background:", lineUnsupported},
	{"Rule:", lineUnsupported},
	{"Examples:", lineUnsupported},
}

// Continuation keywords map to zero and inherit the previous category.
var stepKeywords = map[string]Category{
	"Given": Given,
	"When":  When,
	"Then":  Then,
	"And":   0,
	"But":   0,
}

const invalidNameChars = `/\:*?"<>|`

// Lines splits file content the way Parse expects it.
func Lines(content []byte) []string {
	return strings.Split(string(content), "\n")
}

// Parse parses the lines of one feature file. Every structural problem is
// reported; when there is at least one the returned error is a ParseErrors
// and no features are returned.
func Parse(filename string, lines []string) ([]Feature, error) {
	var (
		features []Feature
		errs     ParseErrors
		last     Category
		// skipping swallows the steps of an unsupported block so they are
		// reported once, on the block line.
		skipping bool
	)

	fail := func(line int, format string, args ...any) {
		errs = append(errs, ParseError{File: filename, Line: line, Message: fmt.Sprintf(format, args...)})
	}
	currentFeature := func() *Feature {
		if len(features) == 0 {
			return nil
		}
		return &features[len(features)-1]
	}
	currentScenario := func() *Scenario {
		f := currentFeature()
		if f == nil || len(f.Scenarios) == 0 {
			return nil
		}
		return &f.Scenarios[len(f.Scenarios)-1]
	}
	inScenario := false

	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])

		// Skip doc strings
		if isDocStringDelimiter(trimmed) {
			i = skipDocString(lines, i)
			continue
		}

		lineNo := i + 1
		i++

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		kind, rest := classify(trimmed)
		switch kind {
		case lineFeature:
			name := strings.TrimSpace(rest)
			if msg := checkFeatureName(name); msg != "" {
				fail(lineNo, "%s", msg)
			}
			features = append(features, Feature{Name: name, Line: lineNo})
			inScenario = false
			skipping = false
			last = 0
			continue

		case lineScenario:
			f := currentFeature()
			if f == nil {
				fail(lineNo, "scenario outside of a feature")
				inScenario = false
				skipping = true
				continue
			}
			f.Scenarios = append(f.Scenarios, Scenario{Name: strings.TrimSpace(rest), Line: lineNo})
			inScenario = true
			skipping = false
			last = 0
			continue

		case lineUnsupported:
			fail(lineNo, "%s is not supported", strings.TrimSuffix(rest, ":"))
			inScenario = false
			skipping = true
			continue
		}

		keyword, text, ok := cutStepKeyword(trimmed)
		if !ok || skipping {
			// Free text, tags, table rows, descriptions
			continue
		}

		if !inScenario {
			fail(lineNo, "step outside of a scenario: %q", trimmed)
			continue
		}
		if text == "" {
			fail(lineNo, "%s step has no text", keyword)
			continue
		}

		category := stepKeywords[keyword]
		if category == 0 {
			if last == 0 {
				fail(lineNo, "%s step has no preceding Given, When or Then", keyword)
				continue
			}
			category = last
		}
		last = category

		sc := currentScenario()
		sc.Steps = append(sc.Steps, Step{Category: category, Keyword: keyword, Text: text, Line: lineNo})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return features, nil
}

// classify checks the block markers. For unsupported markers rest is the
// marker itself, for the others it is the text after the marker.
func classify(trimmed string) (lineKind, string) {
	for _, m := range markers {
		if strings.HasPrefix(trimmed, m.prefix) {
			if m.kind == lineUnsupported {
				return m.kind, m.prefix
			}
			return m.kind, strings.TrimPrefix(trimmed, m.prefix)
		}
	}
	return lineOther, ""
}

// cutStepKeyword splits "When  they log in" into ("When", "they log in").
// The keyword must be a whole word.
func cutStepKeyword(trimmed string) (keyword, text string, ok bool) {
	end := strings.IndexFunc(trimmed, unicode.IsSpace)
	if end < 0 {
		end = len(trimmed)
	}
	keyword = trimmed[:end]
	if _, ok := stepKeywords[keyword]; !ok {
		return "", "", false
	}
	return keyword, strings.TrimSpace(trimmed[end:]), true
}

func checkFeatureName(name string) string {
	switch {
	case name == "":
		return "feature has no name"
	case name == "." || name == "..":
		return fmt.Sprintf("feature name %q is not a valid file name", name)
	case strings.ContainsAny(name, invalidNameChars):
		return fmt.Sprintf("feature name %q contains one of %s", name, invalidNameChars)
	}
	return ""
}

func isDocStringDelimiter(trimmed string) bool {
	return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "```")
}

// skipDocString advances past a doc string block. i points at the opening delimiter.
// Returns the index of the line after the closing delimiter.
func skipDocString(lines []string, i int) int {
	opener := strings.TrimSpace(lines[i])
	delimiter := `"""`
	if strings.HasPrefix(opener, "```") {
		delimiter = "```"
	}
	i++ // move past opening delimiter
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == delimiter {
			return i + 1 // past the closing delimiter
		}
		i++
	}
	return i // EOF without closing delimiter
}
