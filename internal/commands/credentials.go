package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCredentialsCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage the bank aggregator API key pair",
	}
	cmd.AddCommand(newCredentialsSetCommand(dir))
	cmd.AddCommand(newCredentialsRemoveCommand(dir))
	cmd.AddCommand(newCredentialsShowCommand(dir))
	return cmd
}

func newCredentialsSetCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <secret-id> <secret-key>",
		Short: "Store the API key pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*dir)
			if err != nil {
				return err
			}
			if err := a.store.SetCredentials(args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("Credentials stored. Existing session tokens are invalidated.")
			return nil
		},
	}
}

func newCredentialsRemoveCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the API key pair and all linked accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*dir)
			if err != nil {
				return err
			}
			if err := a.store.RemoveCredentials(); err != nil {
				return err
			}
			fmt.Println("Credentials removed along with linked accounts and requisitions.")
			return nil
		},
	}
}

func newCredentialsShowCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show whether credentials are configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*dir)
			if err != nil {
				return err
			}
			if !a.store.HasCredentials() {
				fmt.Println("No credentials configured.")
				return nil
			}
			secretID, _ := a.store.Credentials()
			fmt.Printf("Credentials configured (secret id %s...%s)\n", head(secretID, 4), tail(secretID, 4))
			return nil
		},
	}
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func tail(s string, n int) string {
	if len(s) <= n {
		return ""
	}
	return s[len(s)-n:]
}
