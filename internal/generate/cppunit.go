package generate

import (
	"strings"
)

const defaultNamespace = "CppUnitTest"

// CppUnit targets the Microsoft C++ unit test framework: a TEST_CLASS header,
// scenario method definitions and step method stubs that fail until
// implemented.
func CppUnit(opts Options) *Template {
	ns := opts.Namespace
	if ns == "" {
		ns = defaultNamespace
	}
	include := func(ctx Context) []string {
		return []string{
			`#include "stdafx.h"`,
			`#include "` + ctx.Feature.Name + `.h"`,
		}
	}

	return &Template{
		Name:         "cppunit",
		Comment:      "//",
		MarkerIndent: "\t",
		HeaderExt:    "h",
		BodyExt:      "cpp",
		StepsExt:     "cpp",
		Render: map[Construct]RenderFunc{
			HeaderOpen: func(ctx Context) []string {
				return []string{
					"#pragma once",
					`#include "CppUnitTest.h"`,
					"",
					"using namespace Microsoft::VisualStudio::CppUnitTestFramework;",
					"",
					"namespace " + ns,
					"{",
					"\tTEST_CLASS(" + TypeName(ctx.Feature.Name) + ")",
					"\t{",
					"\tpublic:",
				}
			},
			HeaderScenario: func(ctx Context) []string {
				return []string{"\t\tTEST_METHOD(" + TypeName(ctx.Scenario.Name) + ");"}
			},
			HeaderMembers: func(Context) []string {
				return []string{"", "\tprivate:"}
			},
			HeaderStep: func(ctx Context) []string {
				return []string{"\t\tvoid " + MethodName(ctx.Step) + "();"}
			},
			HeaderClose: func(Context) []string {
				return []string{"\t};", "}"}
			},

			BodyOpen: func(ctx Context) []string {
				return append(include(ctx), "", "namespace "+ns, "{")
			},
			BodyScenarioOpen: func(ctx Context) []string {
				return []string{
					"\tvoid " + TypeName(ctx.Feature.Name) + "::" + TypeName(ctx.Scenario.Name) + "()",
					"\t{",
				}
			},
			BodyStepCall: func(ctx Context) []string {
				return []string{"\t\t" + MethodName(ctx.Step) + "();"}
			},
			BodyScenarioClose: func(Context) []string {
				return []string{"\t}"}
			},
			BodyClose: func(Context) []string {
				return []string{"}"}
			},

			StepsPrologue: include,
			StepsOpen: func(Context) []string {
				return []string{"namespace " + ns, "{"}
			},
			StepStub: func(ctx Context) []string {
				return []string{
					"\tvoid " + TypeName(ctx.Feature.Name) + "::" + MethodName(ctx.Step) + "()",
					"\t{",
					"\t\tAssert::Fail(L" + cppString("Pending implementation: "+ctx.Step.Sentence()) + ");",
					"\t}",
				}
			},
			StepsClose: func(Context) []string {
				return []string{"}"}
			},
		},
	}
}

var cppEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\t", `\t`)

func cppString(s string) string {
	return `"` + cppEscaper.Replace(s) + `"`
}
