package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConnectCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "connect <institution-id>",
		Short: "Start authorizing a bank connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*dir)
			if err != nil {
				return err
			}

			req, err := a.service.Connect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Requisition %s created.\n", req.ID)
			fmt.Printf("Open this link to authorize with your bank:\n\n  %s\n\n", req.Link)
			fmt.Printf("Then run: financeflow finalize %s\n", req.ID)
			return nil
		},
	}
}
