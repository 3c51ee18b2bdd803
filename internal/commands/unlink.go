package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUnlinkCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <provider-account-id>",
		Short: "Unlink a bank account, keeping its imported transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*dir)
			if err != nil {
				return err
			}

			removed, err := a.service.Unlink(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("account %s is not linked", args[0])
			}
			fmt.Printf("Unlinked %s. Imported transactions stay in the ledger.\n", args[0])
			return nil
		},
	}
}
