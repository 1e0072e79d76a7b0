package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/stepgen/internal/config"
	"github.com/chriserin/stepgen/internal/db"
)

var initTemplateFlag string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize stepgen in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout(), initTemplateFlag)
	},
}

func init() {
	initCmd.Flags().StringVar(&initTemplateFlag, "template", "", "Template to record in stepgen.yaml (cppunit or gotest)")
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer, template string) error {
	// stepgen.yaml
	if _, err := os.Stat(config.ProjectConfigFile); err == nil {
		fmt.Fprintf(w, "%s already exists\n", config.ProjectConfigFile)
	} else {
		cfg := config.DefaultConfig()
		if template != "" {
			cfg.Template = template
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.SaveToFile(config.ProjectConfigFile); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s created\n", config.ProjectConfigFile)
	}

	cfg, err := config.NewLoader(slog.Default()).LoadPath(config.ProjectConfigFile)
	if err != nil {
		return err
	}

	// database
	dbPath := cfg.Resolve(cfg.Database)
	_, err = os.Stat(dbPath)
	dbExists := err == nil
	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", cfg.Database)
	} else {
		fmt.Fprintf(w, "%s created\n", cfg.Database)
	}

	// gitignore
	msgs, err := ensureGitignore(gitignoreEntry(cfg.Database))
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

// gitignoreEntry ignores the database's directory, or the database itself
// when it sits at the project root.
func gitignoreEntry(database string) string {
	dir := filepath.Dir(database)
	if dir == "." || filepath.IsAbs(database) {
		return filepath.ToSlash(database)
	}
	return filepath.ToSlash(dir) + "/"
}

func ensureGitignore(entry string) ([]string, error) {
	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
