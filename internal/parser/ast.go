package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the resolved kind of a step. And/But never appear here; they
// take the category of the step they continue.
type Category int

const (
	Given Category = iota + 1
	When
	Then
)

func (c Category) String() string {
	switch c {
	case Given:
		return "Given"
	case When:
		return "When"
	case Then:
		return "Then"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory maps a primary keyword to its category.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "Given":
		return Given, true
	case "When":
		return When, true
	case "Then":
		return Then, true
	}
	return 0, false
}

type Feature struct {
	Name      string
	Scenarios []Scenario
	Line      int // 1-based line number of Feature: line
}

type Scenario struct {
	Name  string
	Steps []Step
	Line  int // 1-based line number of Scenario: line
}

type Step struct {
	Category Category
	Keyword  string // as written: Given, When, Then, And, But
	Text     string // sentence after the keyword
	Line     int
}

// Sentence is the step with its continuation keyword resolved,
// e.g. "Then they see an error" for "And they see an error".
func (s Step) Sentence() string {
	if s.Text == "" {
		return s.Category.String()
	}
	return s.Category.String() + " " + s.Text
}

// Equal reports structural equality: category and text only.
func (s Step) Equal(o Step) bool {
	return s.Category == o.Category && s.Text == o.Text
}

// ErrMalformedDocument marks structural violations in a feature file.
var ErrMalformedDocument = errors.New("malformed document")

type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

func (e ParseError) Unwrap() error { return ErrMalformedDocument }

// ParseErrors is every structural problem found in one file.
type ParseErrors []ParseError

func (errs ParseErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

func (errs ParseErrors) Unwrap() error { return ErrMalformedDocument }
