package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/stepgen/internal/parser"
)

func runShow(t *testing.T, path string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunShow(&buf, loadTestConfig(t), path))
	return buf.String()
}

func TestShow_BeforeGenerate(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "login.feature", loginFeature)

	out := runShow(t, "login.feature")

	assert.Contains(t, out, "Feature: Login\n")
	assert.Contains(t, out, "steps: Login_stepDefinitions.cpp\n")
	assert.Contains(t, out, "GivenAUserExists")
	assert.Contains(t, out, "Given a user exists")
	assert.Contains(t, out, "3 PENDING")
	assert.NotContains(t, out, "defined")
}

func TestShow_MarksDefinedSteps(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "login.feature", loginFeature)
	runGenerate(t, GenerateOptions{Single: true})
	writeFeature(t, "login.feature", loginFeature+invalidLoginScenario)

	out := runShow(t, "login.feature")

	assert.Equal(t, 3, strings.Count(out, "defined"))
	assert.Contains(t, out, "WhenTheyEnterAWrongPassword")
	assert.Contains(t, out, "Invalid login")
	assert.Contains(t, out, "2 PENDING")
}

func TestShow_ContinuationStepsUseTheirCategory(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "search.feature", `Feature: Search
  Scenario: Filter
    Given a catalog
    And a logged in user
    Then results appear
    But nothing is hidden
`)

	out := runShow(t, "search.feature")

	assert.Contains(t, out, "GivenALoggedInUser")
	assert.Contains(t, out, "ThenNothingIsHidden")
}

func TestShow_MultipleFeatures(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "all.feature", loginFeature+"\nFeature: Cart\n  Scenario: Add item\n    Given an empty cart\n")

	out := runShow(t, "all.feature")

	assert.Contains(t, out, "Feature: Login\n")
	assert.Contains(t, out, "Feature: Cart\n")
	assert.Contains(t, out, "steps: Cart_stepDefinitions.cpp\n")
}

func TestShow_ParseError(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "bad.feature", "Scenario: Orphan\n")

	var buf bytes.Buffer
	err := RunShow(&buf, loadTestConfig(t), "bad.feature")
	assert.ErrorIs(t, err, parser.ErrMalformedDocument)
}

func TestShow_MissingFile(t *testing.T) {
	inTempDir(t)
	var buf bytes.Buffer
	assert.Error(t, RunShow(&buf, loadTestConfig(t), "missing.feature"))
}
