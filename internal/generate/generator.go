package generate

import (
	"github.com/chriserin/stepgen/internal/parser"
)

// Role is how a generated or tracked file is registered in a project manifest.
type Role string

const (
	RoleDeclaration Role = "declaration"
	RoleCompile     Role = "compile"
	RoleCompanion   Role = "companion"
	RoleSource      Role = "source"
)

// Roles lists every role in display order.
func Roles() []Role {
	return []Role{RoleDeclaration, RoleCompile, RoleCompanion, RoleSource}
}

// Generators returns one generator per artifact kind, in write order.
func Generators() []Generator {
	return []Generator{Header{}, Scenarios{}, StepDefinitions{Standalone: true}}
}

// Generator renders one artifact per feature. result[i] belongs to features[i].
type Generator interface {
	Generate(t *Template, features []parser.Feature) ([][]string, error)
	// FileName is the artifact's base name for a feature.
	FileName(t *Template, feature string) string
	Role() Role
}

// Header renders the declaration skeleton of each feature.
type Header struct{}

func (Header) FileName(t *Template, feature string) string {
	return feature + t.Suffix + "." + t.HeaderExt
}

func (Header) Role() Role { return RoleDeclaration }

func (Header) Generate(t *Template, features []parser.Feature) ([][]string, error) {
	if err := t.require(HeaderOpen, HeaderScenario, HeaderClose); err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(features))
	for i := range features {
		f := &features[i]
		if err := checkIdentifiers(*f, nil); err != nil {
			return nil, err
		}

		lines := t.render(HeaderOpen, Context{Feature: f})
		for j := range f.Scenarios {
			lines = append(lines, t.render(HeaderScenario, Context{Feature: f, Scenario: &f.Scenarios[j]})...)
		}
		lines = append(lines, t.render(HeaderMembers, Context{Feature: f})...)
		if t.has(HeaderStep) {
			for _, s := range f.UniqueSteps() {
				lines = append(lines, t.render(HeaderStep, Context{Feature: f, Step: s})...)
			}
		}
		lines = append(lines, t.render(HeaderClose, Context{Feature: f})...)
		out = append(out, lines)
	}
	return out, nil
}

// Scenarios renders each scenario as a body calling its steps in order.
type Scenarios struct{}

func (Scenarios) FileName(t *Template, feature string) string {
	return feature + "_scenarios" + t.Suffix + "." + t.BodyExt
}

func (Scenarios) Role() Role { return RoleCompile }

func (Scenarios) Generate(t *Template, features []parser.Feature) ([][]string, error) {
	if err := t.require(BodyOpen, BodyScenarioOpen, BodyStepCall, BodyScenarioClose, BodyClose); err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(features))
	for i := range features {
		f := &features[i]
		if err := checkIdentifiers(*f, nil); err != nil {
			return nil, err
		}

		lines := t.render(BodyOpen, Context{Feature: f})
		for j := range f.Scenarios {
			sc := &f.Scenarios[j]
			if j > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, t.render(BodyScenarioOpen, Context{Feature: f, Scenario: sc})...)
			for _, s := range sc.Steps {
				lines = append(lines, t.render(BodyStepCall, Context{Feature: f, Scenario: sc, Step: s})...)
			}
			lines = append(lines, t.render(BodyScenarioClose, Context{Feature: f, Scenario: sc})...)
		}
		lines = append(lines, t.render(BodyClose, Context{Feature: f})...)
		out = append(out, lines)
	}
	return out, nil
}

// StepDefinitions renders one stub per unique step not already in Known.
//
// With Standalone set the artifact is a complete file. Otherwise it is a
// fragment for appending to an existing file and is empty when there is
// nothing new.
type StepDefinitions struct {
	Standalone bool
	Known      []parser.Step
}

func (StepDefinitions) FileName(t *Template, feature string) string {
	return feature + "_stepDefinitions" + t.Suffix + "." + t.StepsExt
}

func (StepDefinitions) Role() Role { return RoleCompile }

func (g StepDefinitions) Generate(t *Template, features []parser.Feature) ([][]string, error) {
	required := []Construct{StepsOpen, StepStub, StepsClose}
	if g.Standalone {
		required = append(required, StepsPrologue)
	}
	if err := t.require(required...); err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(features))
	for i := range features {
		f := &features[i]
		if err := checkIdentifiers(*f, g.Known); err != nil {
			return nil, err
		}

		steps := parser.UniqueSteps(g.Known, f.Steps())
		if !g.Standalone && len(steps) == 0 {
			out = append(out, []string{})
			continue
		}

		var lines []string
		if g.Standalone {
			lines = append(lines, t.render(StepsPrologue, Context{Feature: f})...)
		}
		lines = append(lines, "", featureMarker(t, f.Name))
		lines = append(lines, t.render(StepsOpen, Context{Feature: f})...)
		for j, s := range steps {
			if j > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, stepMarker(t, s))
			lines = append(lines, t.render(StepStub, Context{Feature: f, Step: s})...)
		}
		lines = append(lines, t.render(StepsClose, Context{Feature: f})...)
		out = append(out, lines)
	}
	return out, nil
}
