package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/financeflow-app/financeflow/internal/model"
)

func newFinalizeCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <requisition-id>",
		Short: "Link the accounts of an authorized requisition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*dir)
			if err != nil {
				return err
			}

			result, err := a.service.Finalize(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !result.Authorized() {
				switch result.Status {
				case model.RequisitionRejected:
					fmt.Println("Authorization was rejected by the institution. Start over with 'financeflow connect'.")
				case model.RequisitionExpired:
					fmt.Println("The authorization link expired. Start over with 'financeflow connect'.")
				default:
					fmt.Printf("Authorization not completed yet (status %s). Finish the bank's flow, then retry.\n", result.Status)
				}
				return nil
			}

			for _, acc := range result.Linked {
				fmt.Printf("Linked %s (%s)\n", acc.Label(), acc.ProviderAccountID)
			}
			if result.Skipped > 0 {
				fmt.Printf("%d account(s) skipped, details unavailable. Re-run finalize to retry.\n", result.Skipped)
			}
			return nil
		},
	}
}
