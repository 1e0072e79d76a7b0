package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/stepgen/internal/config"
	"github.com/chriserin/stepgen/internal/generate"
	"github.com/chriserin/stepgen/internal/merge"
	"github.com/chriserin/stepgen/internal/parser"
	"github.com/chriserin/stepgen/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <feature-file>",
	Short: "Show the unique steps of a feature file and which are defined",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return RunShow(cmd.OutOrStdout(), cfg, args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, cfg *config.Config, path string) error {
	features, tmpl, err := parseFeatureFile(cfg, path)
	if err != nil {
		return err
	}

	dir := merge.ArtifactDir(cfg.Resolve(cfg.OutputDir), path)
	for i, f := range features {
		if i > 0 {
			fmt.Fprintln(w)
		}
		stepsPath := filepath.Join(dir, generate.StepDefinitions{}.FileName(tmpl, f.Name))

		var known []parser.Step
		content, err := os.ReadFile(stepsPath)
		switch {
		case err == nil:
			if group, ok := generate.FindGroup(generate.ParseExisting(tmpl, parser.Lines(content)), f.Name); ok {
				known = group.Steps
			}
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("reading %s: %w", stepsPath, err)
		}

		var rows []ui.StepRow
		for _, b := range parser.Bindings(f) {
			step := parser.Step{Category: b.Category, Text: b.Text}
			rows = append(rows, ui.StepRow{
				Method:   generate.MethodName(step),
				Step:     step.Sentence(),
				Scenario: b.Scenario,
				Defined:  len(parser.UniqueSteps(known, []parser.Step{step})) == 0,
			})
		}

		ui.ShowFeature(w, f.Name, displayPath(cfg, stepsPath))
		ui.StepTable(w, rows)
	}
	return nil
}

func parseFeatureFile(cfg *config.Config, path string) ([]parser.Feature, *generate.Template, error) {
	tmpl, err := generate.Lookup(cfg.Template, cfg.Options())
	if err != nil {
		return nil, nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	features, err := parser.Parse(path, parser.Lines(content))
	if err != nil {
		return nil, nil, err
	}
	return features, tmpl, nil
}

// displayPath shortens path relative to the project root.
func displayPath(cfg *config.Config, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(cfg.Root, abs); err == nil {
		return rel
	}
	return path
}
