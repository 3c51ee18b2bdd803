package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/financeflow-app/financeflow/internal/categorize"
	"github.com/financeflow-app/financeflow/internal/config"
	"github.com/financeflow-app/financeflow/internal/gitops"
	"github.com/financeflow-app/financeflow/internal/ledger"
)

func newInitCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new FinanceFlow data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(*dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(absDir)
		},
	}
}

func runInit(dir string) error {
	for _, d := range []string{"rules", "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := categorize.Save(filepath.Join(dir, rulesFile), categorize.Default()); err != nil {
		return fmt.Errorf("writing categorization rules: %w", err)
	}

	if err := ledger.NewService(dir).Init(); err != nil {
		return fmt.Errorf("writing ledger files: %w", err)
	}

	// The config file carries API credentials; it never goes into history.
	gitignore := config.FileName + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if gitops.IsRepo(dir) {
		fmt.Printf("Initialized FinanceFlow data directory at %s\n", dir)
		return nil
	}

	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.CommitAll(dir, "init: new FinanceFlow data directory", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized FinanceFlow data directory at %s (%s)\n", dir, hash)
	return nil
}
