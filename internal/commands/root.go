// Package commands wires the CLI. Every command operates on a data
// directory: a git-tracked folder holding the ledger CSVs, the config file
// and the sync log.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/financeflow-app/financeflow/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var dir string

	rootCmd := &cobra.Command{
		Use:     "financeflow",
		Short:   "Personal finance ledger with bank sync",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dir, "dir", ".", "data directory")

	rootCmd.AddCommand(newInitCommand(&dir))
	rootCmd.AddCommand(newCredentialsCommand(&dir))
	rootCmd.AddCommand(newBanksCommand(&dir))
	rootCmd.AddCommand(newConnectCommand(&dir))
	rootCmd.AddCommand(newFinalizeCommand(&dir))
	rootCmd.AddCommand(newSyncCommand(&dir))
	rootCmd.AddCommand(newAccountsCommand(&dir))
	rootCmd.AddCommand(newUnlinkCommand(&dir))

	return rootCmd
}
