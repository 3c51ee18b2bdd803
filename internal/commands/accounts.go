package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAccountsCommand(dir *string) *cobra.Command {
	var showBalance bool

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List linked bank accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*dir)
			if err != nil {
				return err
			}

			linked := a.service.LinkedAccounts()
			if len(linked) == 0 {
				fmt.Println("No linked accounts. Run 'financeflow connect' first.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			header := "ID\tACCOUNT\tIBAN\tCURRENCY"
			if showBalance {
				header += "\tBALANCE"
			}
			fmt.Fprintln(w, header)

			for _, acc := range linked {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s", acc.ProviderAccountID, acc.Label(), acc.IBAN, acc.Currency)
				if showBalance {
					balance, err := a.service.Balance(cmd.Context(), acc.ProviderAccountID)
					if err != nil {
						fmt.Fprintf(w, "\t(unavailable)")
					} else {
						fmt.Fprintf(w, "\t%s", balance.StringFixed(2))
					}
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&showBalance, "balance", false, "fetch provider-side balances")
	return cmd
}
