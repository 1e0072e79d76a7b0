package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chriserin/stepgen/internal/parser"
)

func TestTypeName(t *testing.T) {
	cases := map[string]string{
		"Login":                   "Login",
		"Valid login":             "ValidLogin",
		"user-profile settings":   "UserProfileSettings",
		"2 factor auth":           "_2FactorAuth",
		"":                        "_",
		"a user named \"bob\"":    "AUserNamedBob",
		"a/b":                     "AB",
		"ab":                      "Ab",
		"the user's (admin) role": "TheUserSAdminRole",
		"50% off":                 "_50Off",
	}
	for in, want := range cases {
		assert.Equal(t, want, TypeName(in), in)
	}
}

func TestMethodName(t *testing.T) {
	s := parser.Step{Category: parser.Then, Keyword: "And", Text: "they see 3 items"}
	assert.Equal(t, "ThenTheySee3Items", MethodName(s))

	quoted := parser.Step{Category: parser.Given, Keyword: "Given", Text: `a user named "bob"`}
	assert.Equal(t, "GivenAUserNamedBob", MethodName(quoted))
}

func TestMethodName_PunctuationKeepsStepsApart(t *testing.T) {
	slash := parser.Step{Category: parser.Given, Keyword: "Given", Text: "a/b"}
	plain := parser.Step{Category: parser.Given, Keyword: "Given", Text: "ab"}
	assert.Equal(t, "GivenAB", MethodName(slash))
	assert.Equal(t, "GivenAb", MethodName(plain))
}
