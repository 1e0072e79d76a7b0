package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/stepgen/internal/config"
	"github.com/chriserin/stepgen/internal/db"
	"github.com/chriserin/stepgen/internal/ui"
)

var (
	configFlag  string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:           "stepgen",
	Short:         "stepgen generates test harnesses from feature files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verboseFlag {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to stepgen.yaml (default: nearest in this or a parent directory)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log generation decisions to stderr")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.ErrLine(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	loader := config.NewLoader(slog.Default())
	if configFlag != "" {
		return loader.LoadPath(configFlag)
	}
	return loader.Load()
}

// openManifest opens the project database, which must already exist.
func openManifest(cfg *config.Config) (*sql.DB, *db.Manifest, error) {
	path := cfg.Resolve(cfg.Database)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("run `stepgen init` first")
	}
	sqlDB, err := db.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return sqlDB, db.NewManifest(sqlDB, cfg.Root), nil
}
