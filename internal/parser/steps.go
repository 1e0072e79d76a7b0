package parser

// signature is the comparable identity of a step.
type signature struct {
	category Category
	text     string
}

func (s Step) signature() signature {
	return signature{category: s.Category, text: s.Text}
}

// UniqueSteps returns candidates in first-occurrence order, dropping any step
// equal to a known one or to an earlier candidate.
func UniqueSteps(known []Step, candidates []Step) []Step {
	seen := make(map[signature]struct{}, len(known)+len(candidates))
	for _, s := range known {
		seen[s.signature()] = struct{}{}
	}

	unique := make([]Step, 0, len(candidates))
	for _, s := range candidates {
		sig := s.signature()
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		unique = append(unique, s)
	}
	return unique
}

// Steps flattens every scenario's steps in document order.
func (f Feature) Steps() []Step {
	var steps []Step
	for _, sc := range f.Scenarios {
		steps = append(steps, sc.Steps...)
	}
	return steps
}

// UniqueSteps is the feature's steps with repeats across scenarios removed.
func (f Feature) UniqueSteps() []Step {
	return UniqueSteps(nil, f.Steps())
}

// Without returns a copy of f whose scenarios no longer contain any step
// equal to one in known. Scenario order and names are kept, even when a
// scenario ends up empty. f itself is not modified.
func (f Feature) Without(known []Step) Feature {
	drop := make(map[signature]struct{}, len(known))
	for _, s := range known {
		drop[s.signature()] = struct{}{}
	}

	out := Feature{Name: f.Name, Line: f.Line, Scenarios: make([]Scenario, 0, len(f.Scenarios))}
	for _, sc := range f.Scenarios {
		kept := make([]Step, 0, len(sc.Steps))
		for _, s := range sc.Steps {
			if _, ok := drop[s.signature()]; !ok {
				kept = append(kept, s)
			}
		}
		out.Scenarios = append(out.Scenarios, Scenario{Name: sc.Name, Line: sc.Line, Steps: kept})
	}
	return out
}

// Binding is one unique step of a feature together with the first scenario
// that uses it.
type Binding struct {
	Category Category
	Text     string
	Scenario string
}

// Bindings lists the unique steps of f with their owning scenario.
func Bindings(f Feature) []Binding {
	seen := make(map[signature]struct{})
	var out []Binding
	for _, sc := range f.Scenarios {
		for _, s := range sc.Steps {
			sig := s.signature()
			if _, ok := seen[sig]; ok {
				continue
			}
			seen[sig] = struct{}{}
			out = append(out, Binding{Category: s.Category, Text: s.Text, Scenario: sc.Name})
		}
	}
	return out
}
