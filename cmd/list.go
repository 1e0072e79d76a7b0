package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/chriserin/stepgen/internal/config"
	"github.com/chriserin/stepgen/internal/generate"
	"github.com/chriserin/stepgen/internal/ui"
)

var roleFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the artifacts recorded in the manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return RunList(cmd.OutOrStdout(), cfg, roleFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&roleFlag, "role", "", "Filter by role (declaration, compile, companion, source)")
	rootCmd.AddCommand(listCmd)
}

func RunList(w io.Writer, cfg *config.Config, role string) error {
	if role != "" && !slices.Contains(generate.Roles(), generate.Role(role)) {
		return fmt.Errorf("unknown role %q", role)
	}

	sqlDB, manifest, err := openManifest(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	artifacts, err := manifest.Artifacts(generate.Role(role))
	if err != nil {
		return err
	}
	if len(artifacts) == 0 {
		fmt.Fprintln(w, "no artifacts")
		return nil
	}

	ui.ArtifactTable(w, artifacts)
	return nil
}
