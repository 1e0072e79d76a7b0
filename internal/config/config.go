// Package config loads stepgen.yaml and the user-level defaults beneath it.
package config

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/chriserin/stepgen/internal/generate"
)

// Config is the resolved stepgen configuration.
type Config struct {
	// Template names the generator template (cppunit or gotest).
	Template string `yaml:"template"`
	// Namespace wraps cppunit output; empty uses the template default.
	Namespace string `yaml:"namespace,omitempty"`
	// Package names gotest output; empty uses the template default.
	Package string `yaml:"package,omitempty"`
	// OutputDir receives generated files. Empty writes next to each feature file.
	OutputDir string `yaml:"output_dir,omitempty"`
	// Database is the manifest path, relative to the project root.
	Database string `yaml:"database"`
	// CompanionDir receives the YAML step catalogs.
	CompanionDir string `yaml:"companion_dir"`
	// Single disables the manifest and companion catalogs.
	Single bool `yaml:"single,omitempty"`
	// Patterns select feature files when none are given on the command line.
	Patterns []string `yaml:"patterns"`

	// Root is the directory holding the project config, or the working
	// directory when there is none.
	Root string `yaml:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		Template:     "cppunit",
		Database:     filepath.Join(".stepgen", "stepgen.db"),
		CompanionDir: filepath.Join(".stepgen", "steps"),
		Patterns:     []string{"**/*.feature"},
	}
}

func (c *Config) Validate() error {
	if !slices.Contains(generate.Names(), c.Template) {
		return fmt.Errorf("%w: %q (want one of %v)", generate.ErrUnsupportedTemplate, c.Template, generate.Names())
	}
	if c.Package != "" && !token.IsIdentifier(c.Package) {
		return fmt.Errorf("package %q is not a valid Go identifier", c.Package)
	}
	if !c.Single && c.Database == "" {
		return fmt.Errorf("database is required unless single is set")
	}
	if len(c.Patterns) == 0 {
		return fmt.Errorf("at least one pattern is required")
	}
	for _, p := range c.Patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid pattern %q", p)
		}
	}
	return nil
}

// Options returns the generator options the config selects.
func (c *Config) Options() generate.Options {
	return generate.Options{Namespace: c.Namespace, Package: c.Package}
}

// Resolve makes a configured path absolute against Root.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Root == "" {
		return path
	}
	return filepath.Join(c.Root, path)
}

// LoadFromFile reads a config file. Fields absent from the file stay zero
// so the result can be merged over other layers.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return config, nil
}

func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Merge copies the non-zero fields of other over c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Template != "" {
		c.Template = other.Template
	}
	if other.Namespace != "" {
		c.Namespace = other.Namespace
	}
	if other.Package != "" {
		c.Package = other.Package
	}
	if other.OutputDir != "" {
		c.OutputDir = other.OutputDir
	}
	if other.Database != "" {
		c.Database = other.Database
	}
	if other.CompanionDir != "" {
		c.CompanionDir = other.CompanionDir
	}
	if other.Single {
		c.Single = true
	}
	if len(other.Patterns) > 0 {
		c.Patterns = other.Patterns
	}
}
