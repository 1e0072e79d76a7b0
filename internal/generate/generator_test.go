package generate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/stepgen/internal/parser"
)

const loginFeature = `Feature: Login
  Scenario: Valid login
    Given a user exists
    When  they log in with valid credentials
    Then  they see the dashboard
`

const loginFeatureV2 = loginFeature + `
  Scenario: Invalid login
    Given a user exists
    When  they log in with invalid credentials
    Then  they see an error
`

func parseFeatures(t *testing.T, content string) []parser.Feature {
	t.Helper()
	features, err := parser.Parse("test.feature", parser.Lines([]byte(content)))
	require.NoError(t, err)
	return features
}

func generateOne(t *testing.T, g Generator, tmpl *Template, content string) []string {
	t.Helper()
	out, err := g.Generate(tmpl, parseFeatures(t, content))
	require.NoError(t, err)
	require.Len(t, out, 1)
	return out[0]
}

func assertLines(t *testing.T, want, got []string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("generated lines mismatch (-want +got):\n%s", diff)
	}
}

func TestHeader_CppUnit(t *testing.T) {
	got := generateOne(t, Header{}, CppUnit(Options{}), loginFeature)

	assertLines(t, []string{
		"#pragma once",
		`#include "CppUnitTest.h"`,
		"",
		"using namespace Microsoft::VisualStudio::CppUnitTestFramework;",
		"",
		"namespace CppUnitTest",
		"{",
		"\tTEST_CLASS(Login)",
		"\t{",
		"\tpublic:",
		"\t\tTEST_METHOD(ValidLogin);",
		"",
		"\tprivate:",
		"\t\tvoid GivenAUserExists();",
		"\t\tvoid WhenTheyLogInWithValidCredentials();",
		"\t\tvoid ThenTheySeeTheDashboard();",
		"\t};",
		"}",
	}, got)
}

func TestHeader_DeclaresSharedStepOnce(t *testing.T) {
	got := generateOne(t, Header{}, CppUnit(Options{Namespace: "Specs"}), loginFeatureV2)

	count := 0
	for _, line := range got {
		if line == "\t\tvoid GivenAUserExists();" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Contains(t, got, "namespace Specs")
	assert.Contains(t, got, "\t\tTEST_METHOD(InvalidLogin);")
}

func TestScenarios_CppUnit(t *testing.T) {
	got := generateOne(t, Scenarios{}, CppUnit(Options{}), loginFeatureV2)

	assertLines(t, []string{
		`#include "stdafx.h"`,
		`#include "Login.h"`,
		"",
		"namespace CppUnitTest",
		"{",
		"\tvoid Login::ValidLogin()",
		"\t{",
		"\t\tGivenAUserExists();",
		"\t\tWhenTheyLogInWithValidCredentials();",
		"\t\tThenTheySeeTheDashboard();",
		"\t}",
		"",
		"\tvoid Login::InvalidLogin()",
		"\t{",
		"\t\tGivenAUserExists();",
		"\t\tWhenTheyLogInWithInvalidCredentials();",
		"\t\tThenTheySeeAnError();",
		"\t}",
		"}",
	}, got)
}

func TestScenarios_ContinuationCallsResolvedStep(t *testing.T) {
	got := generateOne(t, Scenarios{}, CppUnit(Options{}), `Feature: Login
  Scenario: Locked
    Given a user exists
    And   the account is locked
`)
	assert.Contains(t, got, "\t\tGivenTheAccountIsLocked();")
}

func TestStepDefinitions_CppUnitStandalone(t *testing.T) {
	got := generateOne(t, StepDefinitions{Standalone: true}, CppUnit(Options{}), loginFeature)

	assertLines(t, []string{
		`#include "stdafx.h"`,
		`#include "Login.h"`,
		"",
		"// stepgen:feature Login",
		"namespace CppUnitTest",
		"{",
		"\t// stepgen:step Given a user exists",
		"\tvoid Login::GivenAUserExists()",
		"\t{",
		`		Assert::Fail(L"Pending implementation: Given a user exists");`,
		"\t}",
		"",
		"\t// stepgen:step When they log in with valid credentials",
		"\tvoid Login::WhenTheyLogInWithValidCredentials()",
		"\t{",
		`		Assert::Fail(L"Pending implementation: When they log in with valid credentials");`,
		"\t}",
		"",
		"\t// stepgen:step Then they see the dashboard",
		"\tvoid Login::ThenTheySeeTheDashboard()",
		"\t{",
		`		Assert::Fail(L"Pending implementation: Then they see the dashboard");`,
		"\t}",
		"}",
	}, got)
}

func TestStepDefinitions_OneStubPerUniqueStep(t *testing.T) {
	got := generateOne(t, StepDefinitions{Standalone: true}, CppUnit(Options{}), `Feature: Login
  Scenario: A
    Given a user is logged in
    Then  they see the dashboard
  Scenario: B
    Given a user is logged in
    Then  they see the settings
`)

	stubs := 0
	for _, line := range got {
		if line == "\tvoid Login::GivenAUserIsLoggedIn()" {
			stubs++
		}
	}
	assert.Equal(t, 1, stubs)
}

func TestStepDefinitions_FragmentOmitsPrologue(t *testing.T) {
	features := parseFeatures(t, loginFeatureV2)
	known := parseFeatures(t, loginFeature)[0].UniqueSteps()

	out, err := StepDefinitions{Known: known}.Generate(CppUnit(Options{}), []parser.Feature{features[0].Without(known)})
	require.NoError(t, err)
	got := out[0]

	assertLines(t, []string{
		"",
		"// stepgen:feature Login",
		"namespace CppUnitTest",
		"{",
		"\t// stepgen:step When they log in with invalid credentials",
		"\tvoid Login::WhenTheyLogInWithInvalidCredentials()",
		"\t{",
		`		Assert::Fail(L"Pending implementation: When they log in with invalid credentials");`,
		"\t}",
		"",
		"\t// stepgen:step Then they see an error",
		"\tvoid Login::ThenTheySeeAnError()",
		"\t{",
		`		Assert::Fail(L"Pending implementation: Then they see an error");`,
		"\t}",
		"}",
	}, got)
}

func TestStepDefinitions_KnownFilteredWithoutPrefiltering(t *testing.T) {
	features := parseFeatures(t, loginFeatureV2)
	known := parseFeatures(t, loginFeature)[0].UniqueSteps()

	out, err := StepDefinitions{Known: known}.Generate(CppUnit(Options{}), features)
	require.NoError(t, err)

	assert.NotContains(t, out[0], "\t// stepgen:step Given a user exists")
	assert.Contains(t, out[0], "\t// stepgen:step Then they see an error")
}

func TestStepDefinitions_EmptyFragmentWhenNothingNew(t *testing.T) {
	features := parseFeatures(t, loginFeature)

	out, err := StepDefinitions{Known: features[0].UniqueSteps()}.Generate(CppUnit(Options{}), features)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Empty(t, out[0])
}

func TestStepDefinitions_EscapesStepText(t *testing.T) {
	got := generateOne(t, StepDefinitions{Standalone: true}, CppUnit(Options{}), `Feature: Quotes
  Scenario: A
    Given the title is "C:\temp"
`)
	assert.Contains(t, got, `		Assert::Fail(L"Pending implementation: Given the title is \"C:\\temp\"");`)
}

func TestGenerators_PositionallyAligned(t *testing.T) {
	features := parseFeatures(t, `Feature: Login
  Scenario: A
    Given a

Feature: Empty

Feature: Logout
  Scenario: B
    Given b
`)
	tmpl := CppUnit(Options{})

	for _, g := range []Generator{Header{}, Scenarios{}, StepDefinitions{Standalone: true}} {
		out, err := g.Generate(tmpl, features)
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.NotEmpty(t, out[1], "%T", g)
		assert.NotEqual(t, out[0], out[2], "%T", g)
	}

	out, err := StepDefinitions{Standalone: true}.Generate(tmpl, features)
	require.NoError(t, err)
	assert.Contains(t, out[1], "// stepgen:feature Empty")
	assert.Contains(t, out[2], "\tvoid Logout::GivenB()")
}

func TestGenerators_Deterministic(t *testing.T) {
	tmpl := CppUnit(Options{})
	for _, g := range []Generator{Header{}, Scenarios{}, StepDefinitions{Standalone: true}} {
		first, err := g.Generate(tmpl, parseFeatures(t, loginFeatureV2))
		require.NoError(t, err)
		second, err := g.Generate(tmpl, parseFeatures(t, loginFeatureV2))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestGenerators_UnsupportedTemplate(t *testing.T) {
	tmpl := CppUnit(Options{})
	delete(tmpl.Render, BodyStepCall)

	_, err := Scenarios{}.Generate(tmpl, parseFeatures(t, loginFeature))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedTemplate))
	assert.Contains(t, err.Error(), "BodyStepCall")

	_, err = Header{}.Generate(tmpl, parseFeatures(t, loginFeature))
	assert.NoError(t, err)
}

func TestStepDefinitions_PrologueOnlyRequiredStandalone(t *testing.T) {
	tmpl := CppUnit(Options{})
	delete(tmpl.Render, StepsPrologue)

	_, err := StepDefinitions{Standalone: true}.Generate(tmpl, parseFeatures(t, loginFeature))
	assert.True(t, errors.Is(err, ErrUnsupportedTemplate))

	_, err = StepDefinitions{}.Generate(tmpl, parseFeatures(t, loginFeature))
	assert.NoError(t, err)
}

func TestGenerators_NameCollision(t *testing.T) {
	features := parseFeatures(t, `Feature: Login
  Scenario: A
    Given a user-account
    Given a user account
`)
	_, err := Header{}.Generate(CppUnit(Options{}), features)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNameCollision))
	assert.Contains(t, err.Error(), "GivenAUserAccount")
}

func TestGenerators_DuplicateScenarioNames(t *testing.T) {
	features := parseFeatures(t, `Feature: Login
  Scenario: Same
    Given a
  Scenario: Same
    Given b
`)
	_, err := Scenarios{}.Generate(CppUnit(Options{}), features)
	assert.True(t, errors.Is(err, ErrNameCollision))
}

func TestFileNames(t *testing.T) {
	cpp := CppUnit(Options{})
	assert.Equal(t, "Login.h", Header{}.FileName(cpp, "Login"))
	assert.Equal(t, "Login_scenarios.cpp", Scenarios{}.FileName(cpp, "Login"))
	assert.Equal(t, "Login_stepDefinitions.cpp", StepDefinitions{}.FileName(cpp, "Login"))

	gt := GoTest(Options{})
	assert.Equal(t, "Login_test.go", Header{}.FileName(gt, "Login"))
	assert.Equal(t, "Login_scenarios_test.go", Scenarios{}.FileName(gt, "Login"))
	assert.Equal(t, "Login_stepDefinitions_test.go", StepDefinitions{}.FileName(gt, "Login"))

	assert.Equal(t, RoleDeclaration, Header{}.Role())
	assert.Equal(t, RoleCompile, Scenarios{}.Role())
	assert.Equal(t, RoleCompile, StepDefinitions{}.Role())

	var names []string
	for _, g := range Generators() {
		names = append(names, g.FileName(cpp, "Login"))
	}
	assert.Equal(t, []string{"Login.h", "Login_scenarios.cpp", "Login_stepDefinitions.cpp"}, names)
}

func TestGoTest_Artifacts(t *testing.T) {
	tmpl := GoTest(Options{Package: "login"})

	header := generateOne(t, Header{}, tmpl, loginFeature)
	assertLines(t, []string{
		"// Code generated by stepgen. DO NOT EDIT.",
		"",
		"package login",
		"",
		`import "testing"`,
		"",
		"type Login struct {",
		"\tt *testing.T",
		"}",
		"",
		"func TestLogin_ValidLogin(t *testing.T) {",
		"\t(&Login{t: t}).ValidLogin()",
		"}",
	}, header)

	body := generateOne(t, Scenarios{}, tmpl, loginFeature)
	assertLines(t, []string{
		"// Code generated by stepgen. DO NOT EDIT.",
		"",
		"package login",
		"",
		"func (s *Login) ValidLogin() {",
		"\ts.GivenAUserExists()",
		"\ts.WhenTheyLogInWithValidCredentials()",
		"\ts.ThenTheySeeTheDashboard()",
		"}",
	}, body)

	steps := generateOne(t, StepDefinitions{Standalone: true}, tmpl, `Feature: Login
  Scenario: Valid login
    Given a user exists
`)
	assertLines(t, []string{
		"package login",
		"",
		"// stepgen:feature Login",
		"",
		"// stepgen:step Given a user exists",
		"func (s *Login) GivenAUserExists() {",
		`	s.t.Skip("pending: Given a user exists")`,
		"}",
	}, steps)
}

func TestLookup(t *testing.T) {
	tmpl, err := Lookup("gotest", Options{Package: "specs"})
	require.NoError(t, err)
	assert.Equal(t, "gotest", tmpl.Name)

	_, err = Lookup("cobol", Options{})
	assert.True(t, errors.Is(err, ErrUnsupportedTemplate))

	for _, name := range Names() {
		_, err := Lookup(name, Options{})
		assert.NoError(t, err, name)
	}
}
