package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/chriserin/stepgen/internal/companion"
	"github.com/chriserin/stepgen/internal/config"
	"github.com/chriserin/stepgen/internal/db"
	"github.com/chriserin/stepgen/internal/generate"
	"github.com/chriserin/stepgen/internal/merge"
	"github.com/chriserin/stepgen/internal/parser"
	"github.com/chriserin/stepgen/internal/ui"
)

var (
	singleFlag   bool
	templateFlag string
	dryRunFlag   bool
)

var generateCmd = &cobra.Command{
	Use:     "generate [<file-or-pattern>...]",
	Aliases: []string{"gen"},
	Short:   "Generate or update test artifacts for feature files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return RunGenerate(cmd.OutOrStdout(), cfg, GenerateOptions{
			Patterns: args,
			Single:   singleFlag,
			Template: templateFlag,
			DryRun:   dryRunFlag,
		})
	},
}

func init() {
	generateCmd.Flags().BoolVar(&singleFlag, "single", false, "Skip the manifest and companion catalogs")
	generateCmd.Flags().StringVar(&templateFlag, "template", "", "Override the configured template")
	generateCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show what would change without writing")
	rootCmd.AddCommand(generateCmd)
}

type GenerateOptions struct {
	// Patterns select feature files relative to the working directory.
	// Empty uses the configured patterns relative to the project root.
	Patterns []string
	Single   bool
	Template string
	DryRun   bool
}

func RunGenerate(w io.Writer, cfg *config.Config, opts GenerateOptions) error {
	c := *cfg
	if opts.Template != "" {
		c.Template = opts.Template
	}
	single := c.Single || opts.Single

	tmpl, err := generate.Lookup(c.Template, c.Options())
	if err != nil {
		return err
	}

	paths, err := findFeatureFiles(&c, opts.Patterns)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(w, "no feature files found")
		return nil
	}

	sources := make([]merge.Source, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		sources = append(sources, merge.Source{Path: path, Lines: parser.Lines(content)})
	}

	mcfg := merge.Config{
		Template:  tmpl,
		OutputDir: c.Resolve(c.OutputDir),
		Reporter:  ui.NewReporter(w, c.Root),
		Logger:    slog.Default(),
	}

	if opts.DryRun {
		b, err := merge.New(mcfg).Plan(sources)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "dry run, nothing written")
		for _, writes := range b.Writes {
			for _, wr := range writes {
				mcfg.Reporter.Artifact(wr.Path, wr.Outcome, wr.Added)
			}
		}
		return nil
	}

	var manifest *db.Manifest
	if !single {
		sqlDB, err := db.Open(c.Resolve(c.Database))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer sqlDB.Close()

		manifest = db.NewManifest(sqlDB, c.Root)
		mcfg.Manifest = manifest
		mcfg.Companion = companion.NewWriter(c.Resolve(c.CompanionDir), manifest, slog.Default())
	}

	o := merge.New(mcfg)
	b, err := o.Plan(sources)
	if err != nil {
		return err
	}
	if manifest != nil {
		if _, err := manifest.BeginRun(); err != nil {
			return err
		}
	}

	summary, err := o.Apply(b)
	if manifest != nil {
		if ferr := manifest.FinishRun(summary.Sources, summary.Features); ferr != nil && err == nil {
			err = ferr
		}
	}
	if err != nil {
		return err
	}

	ui.SummaryLine(w, summary)
	return nil
}

// findFeatureFiles expands patterns into a sorted list of absolute paths.
func findFeatureFiles(cfg *config.Config, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	add := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if !seen[abs] {
			seen[abs] = true
			paths = append(paths, abs)
		}
		return nil
	}

	if len(patterns) > 0 {
		for _, pattern := range patterns {
			matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", pattern, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %q", pattern)
			}
			for _, m := range matches {
				if err := add(m); err != nil {
					return nil, err
				}
			}
		}
	} else {
		fsys := os.DirFS(cfg.Root)
		for _, pattern := range cfg.Patterns {
			matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				if err := add(filepath.Join(cfg.Root, filepath.FromSlash(m))); err != nil {
					return nil, err
				}
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}
