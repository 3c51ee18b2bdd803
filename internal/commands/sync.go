package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/financeflow-app/financeflow/internal/banksync"
)

const dateFlagFormat = "2006-01-02"

func newSyncCommand(dir *string) *cobra.Command {
	var account, fromFlag, toFlag string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import bank transactions into the ledger",
		Long:  "Import bank transactions into the ledger. Without --account, every linked account is synced in turn.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*dir)
			if err != nil {
				return err
			}

			from, err := parseDateFlag(fromFlag)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			to, err := parseDateFlag(toFlag)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}

			if account != "" {
				result, err := a.service.Sync(cmd.Context(), account, from, to)
				if err != nil {
					return err
				}
				printSyncResult(result)
				return nil
			}

			results := a.service.SyncAll(cmd.Context())
			if len(results) == 0 {
				fmt.Println("No linked accounts. Run 'financeflow connect' first.")
				return nil
			}

			failed := 0
			for _, result := range results {
				printSyncResult(result)
				if result.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d accounts failed to sync", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "sync one provider account id instead of all")
	cmd.Flags().StringVar(&fromFlag, "from", "", "window start, YYYY-MM-DD (default: configured history_days back)")
	cmd.Flags().StringVar(&toFlag, "to", "", "window end, YYYY-MM-DD (default: today)")
	return cmd
}

func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateFlagFormat, value)
}

func printSyncResult(result banksync.SyncResult) {
	if result.Err != nil {
		fmt.Printf("%s: sync failed: %v\n", result.AccountLabel, result.Err)
		return
	}
	fmt.Printf("%s: imported %d of %d transactions (%d skipped)\n",
		result.AccountLabel, result.Imported, result.Total, result.Skipped)
}
