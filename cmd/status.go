package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/stepgen/internal/config"
	"github.com/chriserin/stepgen/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show manifest totals and the last generate run",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return RunStatus(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatus(w io.Writer, cfg *config.Config) error {
	sqlDB, manifest, err := openManifest(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	fmt.Fprintf(w, "Template: %s\n", cfg.Template)

	counts, err := manifest.Counts()
	if err != nil {
		return err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	fmt.Fprintf(w, "Artifacts: %d\n", total)
	if total > 0 {
		ui.RoleTable(w, counts)
	}

	run, ok, err := manifest.LastRun()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(w, "Last run: never")
		return nil
	}
	fmt.Fprintf(w, "Last run: %s (%d files, %d features) %s\n", run.StartedAt, run.Sources, run.Features, run.ID)
	return nil
}
