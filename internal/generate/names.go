package generate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"

	"github.com/chriserin/stepgen/internal/parser"
)

// ErrNameCollision is returned when two different scenarios or steps of a
// feature would be generated under the same identifier.
var ErrNameCollision = errors.New("identifier collision")

// TypeName turns a feature or scenario name into an exported identifier.
// Every run of characters other than letters and digits separates words.
func TypeName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	id := strcase.ToCamel(strings.Join(words, " "))
	if id == "" {
		return "_"
	}
	if id[0] >= '0' && id[0] <= '9' {
		return "_" + id
	}
	return id
}

// MethodName is the identifier of a step implementation,
// "Given a user exists" -> "GivenAUserExists".
func MethodName(s parser.Step) string {
	return TypeName(s.Sentence())
}

// checkIdentifiers rejects features whose scenarios or unique steps (known
// ones included) would produce the same identifier twice.
func checkIdentifiers(f parser.Feature, known []parser.Step) error {
	owners := make(map[string]string)
	claim := func(id, owner string) error {
		if prev, ok := owners[id]; ok {
			return fmt.Errorf("%w in feature %q: %s and %s both become %s", ErrNameCollision, f.Name, prev, owner, id)
		}
		owners[id] = owner
		return nil
	}

	for _, sc := range f.Scenarios {
		if err := claim(TypeName(sc.Name), fmt.Sprintf("scenario %q (line %d)", sc.Name, sc.Line)); err != nil {
			return err
		}
	}
	steps := append(parser.UniqueSteps(nil, known), parser.UniqueSteps(known, f.Steps())...)
	for _, s := range steps {
		if err := claim(MethodName(s), fmt.Sprintf("step %q", s.Sentence())); err != nil {
			return err
		}
	}
	return nil
}
