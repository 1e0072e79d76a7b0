// Package companion writes a YAML catalog of each feature's steps for
// editor tooling. A catalog is written once; after that the manifest owns it
// and later runs leave it alone.
package companion

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/chriserin/stepgen/internal/generate"
	"github.com/chriserin/stepgen/internal/parser"
)

// Registry is the part of the manifest the writer needs.
type Registry interface {
	Known(path string) (bool, error)
	Register(path string, role generate.Role) (bool, error)
}

// Catalog is the document stored in <feature>_steps.yaml.
type Catalog struct {
	Feature string  `yaml:"feature"`
	Steps   []Entry `yaml:"steps"`
}

type Entry struct {
	Category string `yaml:"category"`
	Text     string `yaml:"text"`
	Scenario string `yaml:"scenario"`
	Method   string `yaml:"method"`
}

type Writer struct {
	dir      string
	registry Registry
	logger   *slog.Logger
}

func NewWriter(dir string, registry Registry, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, registry: registry, logger: logger}
}

// Path returns the catalog path for a feature.
func (w *Writer) Path(feature string) string {
	return filepath.Join(w.dir, feature+"_steps.yaml")
}

// Generate writes the catalog for feature unless the registry already knows
// its path.
func (w *Writer) Generate(feature string, bindings []parser.Binding) error {
	path := w.Path(feature)

	known, err := w.registry.Known(path)
	if err != nil {
		return err
	}
	if known {
		w.logger.Debug("companion already registered", slog.String("path", path))
		return nil
	}

	data, err := yaml.Marshal(NewCatalog(feature, bindings))
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating companion directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if _, err := w.registry.Register(path, generate.RoleCompanion); err != nil {
		return err
	}
	w.logger.Debug("wrote companion", slog.String("path", path), slog.Int("steps", len(bindings)))
	return nil
}

func NewCatalog(feature string, bindings []parser.Binding) Catalog {
	c := Catalog{Feature: feature, Steps: make([]Entry, 0, len(bindings))}
	for _, b := range bindings {
		step := parser.Step{Category: b.Category, Text: b.Text}
		c.Steps = append(c.Steps, Entry{
			Category: b.Category.String(),
			Text:     b.Text,
			Scenario: b.Scenario,
			Method:   generate.MethodName(step),
		})
	}
	return c
}

// Load reads a catalog written by Generate.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}
