package generate

import (
	"strconv"
)

const defaultPackage = "features"

const generatedHeader = "// Code generated by stepgen. DO NOT EDIT."

// GoTest targets the standard testing package. All three files are _test.go
// files: the header declares the feature type and one Test function per
// scenario, the scenario file holds the scenario methods and the step file
// holds skipped step methods.
func GoTest(opts Options) *Template {
	pkg := opts.Package
	if pkg == "" {
		pkg = defaultPackage
	}
	none := func(Context) []string { return nil }

	return &Template{
		Name:      "gotest",
		Comment:   "//",
		Suffix:    "_test",
		HeaderExt: "go",
		BodyExt:   "go",
		StepsExt:  "go",
		Render: map[Construct]RenderFunc{
			HeaderOpen: func(ctx Context) []string {
				return []string{
					generatedHeader,
					"",
					"package " + pkg,
					"",
					`import "testing"`,
					"",
					"type " + TypeName(ctx.Feature.Name) + " struct {",
					"\tt *testing.T",
					"}",
				}
			},
			HeaderScenario: func(ctx Context) []string {
				typ := TypeName(ctx.Feature.Name)
				method := TypeName(ctx.Scenario.Name)
				return []string{
					"",
					"func Test" + typ + "_" + method + "(t *testing.T) {",
					"\t(&" + typ + "{t: t})." + method + "()",
					"}",
				}
			},
			HeaderClose: none,

			BodyOpen: func(Context) []string {
				return []string{generatedHeader, "", "package " + pkg, ""}
			},
			BodyScenarioOpen: func(ctx Context) []string {
				return []string{"func (s *" + TypeName(ctx.Feature.Name) + ") " + TypeName(ctx.Scenario.Name) + "() {"}
			},
			BodyStepCall: func(ctx Context) []string {
				return []string{"\ts." + MethodName(ctx.Step) + "()"}
			},
			BodyScenarioClose: func(Context) []string {
				return []string{"}"}
			},
			BodyClose: none,

			StepsPrologue: func(Context) []string {
				return []string{"package " + pkg}
			},
			StepsOpen: func(Context) []string {
				return []string{""}
			},
			StepStub: func(ctx Context) []string {
				return []string{
					"func (s *" + TypeName(ctx.Feature.Name) + ") " + MethodName(ctx.Step) + "() {",
					"\ts.t.Skip(" + strconv.Quote("pending: "+ctx.Step.Sentence()) + ")",
					"}",
				}
			},
			StepsClose: none,
		},
	}
}
