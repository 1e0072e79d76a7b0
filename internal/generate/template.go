// Package generate renders parsed features into test-harness source files
// and reads previously generated step definition files back.
package generate

import (
	"errors"
	"fmt"

	"github.com/chriserin/stepgen/internal/parser"
)

// ErrUnsupportedTemplate is returned when a template cannot render a
// construct a generator needs, or when no template has the requested name.
var ErrUnsupportedTemplate = errors.New("unsupported template")

// Construct names one piece of generated output.
type Construct int

const (
	HeaderOpen Construct = iota
	HeaderScenario
	HeaderMembers // optional, rendered once between scenarios and steps
	HeaderStep    // optional
	HeaderClose
	BodyOpen
	BodyScenarioOpen
	BodyStepCall
	BodyScenarioClose
	BodyClose
	StepsPrologue
	StepsOpen
	StepStub
	StepsClose
)

var constructNames = map[Construct]string{
	HeaderOpen:        "HeaderOpen",
	HeaderScenario:    "HeaderScenario",
	HeaderMembers:     "HeaderMembers",
	HeaderStep:        "HeaderStep",
	HeaderClose:       "HeaderClose",
	BodyOpen:          "BodyOpen",
	BodyScenarioOpen:  "BodyScenarioOpen",
	BodyStepCall:      "BodyStepCall",
	BodyScenarioClose: "BodyScenarioClose",
	BodyClose:         "BodyClose",
	StepsPrologue:     "StepsPrologue",
	StepsOpen:         "StepsOpen",
	StepStub:          "StepStub",
	StepsClose:        "StepsClose",
}

func (c Construct) String() string {
	if name, ok := constructNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Construct(%d)", int(c))
}

// Context is what a render function sees. Scenario is nil outside the
// scenario constructs and Step is zero outside the step constructs.
type Context struct {
	Feature  *parser.Feature
	Scenario *parser.Scenario
	Step     parser.Step
}

type RenderFunc func(Context) []string

// Template describes one output target. Adding a target means supplying a
// new Template value.
type Template struct {
	Name string

	// Comment is the line comment token used for the markers that
	// ParseExisting recognizes.
	Comment string
	// MarkerIndent is prefixed to step markers, which sit inside StepsOpen.
	MarkerIndent string

	// Suffix goes between the file stem and the extension, e.g. "_test".
	Suffix    string
	HeaderExt string
	BodyExt   string
	StepsExt  string

	Render map[Construct]RenderFunc
}

func (t *Template) has(c Construct) bool {
	_, ok := t.Render[c]
	return ok
}

func (t *Template) render(c Construct, ctx Context) []string {
	fn, ok := t.Render[c]
	if !ok {
		return nil
	}
	return fn(ctx)
}

func (t *Template) require(constructs ...Construct) error {
	if t == nil {
		return fmt.Errorf("%w: no template", ErrUnsupportedTemplate)
	}
	if t.Comment == "" {
		return fmt.Errorf("%w: template %q has no comment token", ErrUnsupportedTemplate, t.Name)
	}
	for _, c := range constructs {
		if !t.has(c) {
			return fmt.Errorf("%w: template %q cannot render %s", ErrUnsupportedTemplate, t.Name, c)
		}
	}
	return nil
}

// Options parameterize the built-in templates.
type Options struct {
	Namespace string // cppunit
	Package   string // gotest
}

var builtins = map[string]func(Options) *Template{
	"cppunit": CppUnit,
	"gotest":  GoTest,
}

// Lookup returns the built-in template with the given name.
func Lookup(name string, opts Options) (*Template, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown template %q", ErrUnsupportedTemplate, name)
	}
	return build(opts), nil
}

// Names lists the built-in templates.
func Names() []string {
	return []string{"cppunit", "gotest"}
}
