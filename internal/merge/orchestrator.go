// Package merge keeps generated artifacts in sync with their feature files.
// Header and scenario files are regenerated; step definition files are only
// ever created or appended to, so hand-written step bodies survive.
package merge

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/chriserin/stepgen/internal/generate"
	"github.com/chriserin/stepgen/internal/parser"
)

var (
	// ErrArtifactRead is returned when an existing artifact cannot be read.
	// The run stops rather than guess that nothing exists yet.
	ErrArtifactRead = errors.New("artifact read failure")
	// ErrDuplicateFeature is returned when two features would write the
	// same artifact.
	ErrDuplicateFeature = errors.New("duplicate feature")
)

// Source is one feature file's content.
type Source struct {
	Path  string
	Lines []string
}

// Manifest records artifact paths in a project. Register is idempotent and
// reports whether the path was new.
type Manifest interface {
	Register(path string, role generate.Role) (bool, error)
}

// Companion receives the unique steps of every processed feature.
type Companion interface {
	Generate(feature string, bindings []parser.Binding) error
}

// Reporter is told about every artifact the run considered.
type Reporter interface {
	Artifact(path string, outcome Outcome, added int)
}

type Outcome int

const (
	Created Outcome = iota + 1
	Replaced
	Appended
	Unchanged
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Replaced:
		return "replaced"
	case Appended:
		return "appended"
	case Unchanged:
		return "unchanged"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Write is one planned change to an artifact. Data is the whole file for
// Created and Replaced, the fragment for Appended and nil for Unchanged.
type Write struct {
	Path    string
	Role    generate.Role
	Outcome Outcome
	Data    []byte
	Added   int // step stubs added
}

// Summary counts what a run did.
type Summary struct {
	Sources    int
	Features   int
	Created    int
	Replaced   int
	Appended   int
	Unchanged  int
	StepsAdded int
}

func (s *Summary) add(w Write) {
	switch w.Outcome {
	case Created:
		s.Created++
	case Replaced:
		s.Replaced++
	case Appended:
		s.Appended++
	case Unchanged:
		s.Unchanged++
	}
	s.StepsAdded += w.Added
}

// Config wires an Orchestrator. Template is required; Manifest, Companion
// and Reporter are optional.
type Config struct {
	Template *generate.Template
	Files    Files
	// OutputDir receives the artifacts; empty means next to each feature file.
	OutputDir string
	Manifest  Manifest
	Companion Companion
	Reporter  Reporter
	Logger    *slog.Logger
}

type Orchestrator struct {
	template  *generate.Template
	files     Files
	outputDir string
	manifest  Manifest
	companion Companion
	reporter  Reporter
	logger    *slog.Logger
}

func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		template:  cfg.Template,
		files:     cfg.Files,
		outputDir: cfg.OutputDir,
		manifest:  cfg.Manifest,
		companion: cfg.Companion,
		reporter:  cfg.Reporter,
		logger:    cfg.Logger,
	}
	if o.files == nil {
		o.files = NewOSFiles()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Batch is a planned run. Writes[i] holds the changes for the i-th source.
type Batch struct {
	sources  []Source
	features [][]parser.Feature
	Writes   [][]Write
}

// Run plans every source, then applies the plans. The first error stops the
// run.
func (o *Orchestrator) Run(sources []Source) (Summary, error) {
	b, err := o.Plan(sources)
	if err != nil {
		return Summary{}, err
	}
	return o.Apply(b)
}

// Plan parses and plans every source without touching any file. It fails
// when two features would write the same artifact.
func (o *Orchestrator) Plan(sources []Source) (*Batch, error) {
	if o.template == nil {
		return nil, fmt.Errorf("%w: no template configured", generate.ErrUnsupportedTemplate)
	}
	parsed, err := o.parseAll(sources)
	if err != nil {
		return nil, err
	}

	b := &Batch{sources: sources, features: parsed, Writes: make([][]Write, len(sources))}
	for i, src := range sources {
		b.Writes[i], err = o.plan(src.Path, parsed[i])
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Apply performs the writes of b in source order. The summary counts the
// sources completed before any error.
func (o *Orchestrator) Apply(b *Batch) (Summary, error) {
	var summary Summary
	for i, src := range b.sources {
		writes := b.Writes[i]
		if err := o.apply(src.Path, b.features[i], writes); err != nil {
			return summary, err
		}
		summary.Sources++
		summary.Features += len(b.features[i])
		for _, w := range writes {
			summary.add(w)
		}
	}
	return summary, nil
}

func (o *Orchestrator) parseAll(sources []Source) ([][]parser.Feature, error) {
	var errs parser.ParseErrors
	parsed := make([][]parser.Feature, len(sources))
	for i, src := range sources {
		features, err := parser.Parse(src.Path, src.Lines)
		if err != nil {
			var perrs parser.ParseErrors
			if !errors.As(err, &perrs) {
				return nil, err
			}
			errs = append(errs, perrs...)
			continue
		}
		parsed[i] = features
	}
	if len(errs) > 0 {
		return nil, errs
	}

	// Keyed on artifact paths: with a shared suffix, feature "Login_scenarios"
	// has the header that is also Login's scenario file.
	type owner struct {
		feature string
		at      string
	}
	owners := make(map[string]owner)
	for i, src := range sources {
		dir := o.dirFor(src.Path)
		for _, f := range parsed[i] {
			at := fmt.Sprintf("%s:%d", src.Path, f.Line)
			for _, g := range generate.Generators() {
				path := filepath.Join(dir, g.FileName(o.template, f.Name))
				if prev, ok := owners[path]; ok {
					return nil, fmt.Errorf("%w: %s is written by feature %q (%s) and feature %q (%s)",
						ErrDuplicateFeature, path, prev.feature, prev.at, f.Name, at)
				}
				owners[path] = owner{f.Name, at}
			}
		}
	}
	return parsed, nil
}

func (o *Orchestrator) dirFor(sourcePath string) string {
	return ArtifactDir(o.outputDir, sourcePath)
}

// ArtifactDir is the directory that receives the artifacts of sourcePath.
func ArtifactDir(outputDir, sourcePath string) string {
	if outputDir != "" {
		return outputDir
	}
	return filepath.Dir(sourcePath)
}

func (o *Orchestrator) plan(sourcePath string, features []parser.Feature) ([]Write, error) {
	dir := o.dirFor(sourcePath)
	var writes []Write

	for _, g := range []generate.Generator{generate.Header{}, generate.Scenarios{}} {
		out, err := g.Generate(o.template, features)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", sourcePath, err)
		}
		for i, f := range features {
			path := filepath.Join(dir, g.FileName(o.template, f.Name))
			w, err := o.planReplace(path, g.Role(), out[i])
			if err != nil {
				return nil, err
			}
			writes = append(writes, w)
		}
	}

	for _, f := range features {
		w, err := o.planSteps(dir, f)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", sourcePath, err)
		}
		writes = append(writes, w)
	}
	return writes, nil
}

// planReplace plans a full rewrite, or nothing when the file already holds
// exactly these lines.
func (o *Orchestrator) planReplace(path string, role generate.Role, lines []string) (Write, error) {
	data := render(lines)
	existing, err := o.files.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Write{Path: path, Role: role, Outcome: Created, Data: data}, nil
	case err != nil:
		return Write{}, fmt.Errorf("%w: %s: %w", ErrArtifactRead, path, err)
	case bytes.Equal(existing, data):
		return Write{Path: path, Role: role, Outcome: Unchanged}, nil
	}
	return Write{Path: path, Role: role, Outcome: Replaced, Data: data}, nil
}

// planSteps creates the step definition file, or appends stubs for the
// steps its markers do not mention yet.
func (o *Orchestrator) planSteps(dir string, f parser.Feature) (Write, error) {
	g := generate.StepDefinitions{Standalone: true}
	path := filepath.Join(dir, g.FileName(o.template, f.Name))

	existing, err := o.files.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		out, err := g.Generate(o.template, []parser.Feature{f})
		if err != nil {
			return Write{}, err
		}
		return Write{Path: path, Role: g.Role(), Outcome: Created, Data: render(out[0]), Added: len(f.UniqueSteps())}, nil
	}
	if err != nil {
		return Write{}, fmt.Errorf("%w: %s: %w", ErrArtifactRead, path, err)
	}

	var known []parser.Step
	if group, ok := generate.FindGroup(generate.ParseExisting(o.template, parser.Lines(existing)), f.Name); ok {
		known = group.Steps
	} else {
		o.logger.Debug("no generated steps recognized", slog.String("path", path), slog.String("feature", f.Name))
	}

	remaining := f.Without(known)
	added := len(remaining.UniqueSteps())
	if added == 0 {
		o.logger.Debug("no new steps", slog.String("path", path))
		return Write{Path: path, Role: g.Role(), Outcome: Unchanged}, nil
	}

	g = generate.StepDefinitions{Known: known}
	out, err := g.Generate(o.template, []parser.Feature{remaining})
	if err != nil {
		return Write{}, err
	}
	data := render(out[0])
	if len(existing) > 0 && !bytes.HasSuffix(existing, []byte("\n")) {
		data = append([]byte("\n"), data...)
	}
	o.logger.Debug("appending steps", slog.String("path", path), slog.Int("steps", added))
	return Write{Path: path, Role: g.Role(), Outcome: Appended, Data: data, Added: added}, nil
}

func (o *Orchestrator) apply(sourcePath string, features []parser.Feature, writes []Write) error {
	for _, w := range writes {
		switch w.Outcome {
		case Created, Replaced:
			if err := o.files.WriteFile(w.Path, w.Data); err != nil {
				return fmt.Errorf("writing %s: %w", w.Path, err)
			}
		case Appended:
			if err := o.files.AppendFile(w.Path, w.Data); err != nil {
				return fmt.Errorf("appending to %s: %w", w.Path, err)
			}
		case Unchanged:
			o.logger.Debug("artifact unchanged", slog.String("path", w.Path))
		}

		if o.reporter != nil {
			o.reporter.Artifact(w.Path, w.Outcome, w.Added)
		}
		if w.Outcome != Unchanged {
			if err := o.register(w.Path, w.Role); err != nil {
				return err
			}
		}
	}

	if err := o.register(sourcePath, generate.RoleSource); err != nil {
		return err
	}
	if o.companion != nil {
		for _, f := range features {
			if err := o.companion.Generate(f.Name, parser.Bindings(f)); err != nil {
				return fmt.Errorf("companion bindings for %s: %w", f.Name, err)
			}
		}
	}
	return nil
}

func (o *Orchestrator) register(path string, role generate.Role) error {
	if o.manifest == nil {
		return nil
	}
	added, err := o.manifest.Register(path, role)
	if err != nil {
		return fmt.Errorf("registering %s: %w", path, err)
	}
	if added {
		o.logger.Debug("registered artifact", slog.String("path", path), slog.String("role", string(role)))
	}
	return nil
}

// render matches the line-per-line layout of the generators: every line
// ends with a newline, and no lines means no bytes.
func render(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}
