package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/stepgen/internal/config"
	"github.com/chriserin/stepgen/internal/db"
	"github.com/chriserin/stepgen/internal/generate"
	"github.com/chriserin/stepgen/internal/merge"
	"github.com/chriserin/stepgen/internal/ui"
)

var testsCmd = &cobra.Command{
	Use:   "tests <feature-file>",
	Short: "List the test files generated for a feature file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return RunTests(cmd.OutOrStdout(), cfg, args[0])
	},
}

func init() {
	rootCmd.AddCommand(testsCmd)
}

func RunTests(w io.Writer, cfg *config.Config, path string) error {
	features, tmpl, err := parseFeatureFile(cfg, path)
	if err != nil {
		return err
	}

	// Without a manifest every existing file counts as tracked.
	var manifest *db.Manifest
	if _, err := os.Stat(cfg.Resolve(cfg.Database)); err == nil && !cfg.Single {
		sqlDB, m, err := openManifest(cfg)
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		manifest = m
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := merge.ArtifactDir(cfg.Resolve(cfg.OutputDir), abs)

	for _, f := range features {
		fmt.Fprintf(w, "%s:\n", f.Name)
		for _, g := range generate.Generators() {
			artifact := filepath.Join(dir, g.FileName(tmpl, f.Name))
			_, statErr := os.Stat(artifact)
			exists := statErr == nil

			tracked := true
			if manifest != nil && exists {
				if tracked, err = manifest.Known(artifact); err != nil {
					return err
				}
			}
			ui.ArtifactLine(w, displayPath(cfg, artifact), exists, tracked)
		}
	}
	return nil
}
