package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newBanksCommand(dir *string) *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "banks",
		Short: "List institutions available for bank sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*dir)
			if err != nil {
				return err
			}

			institutions, err := a.service.Institutions(cmd.Context(), country)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tHISTORY DAYS")
			for _, inst := range institutions {
				fmt.Fprintf(w, "%s\t%s\t%d\n", inst.ID, inst.Name, inst.MaxHistoryDays)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "ISO2 country code (default: configured country)")
	return cmd
}
