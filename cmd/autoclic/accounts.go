package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autoclic/internal/account"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage stored portal accounts",
}

var (
	addID       string
	addName     string
	addSecret   string
	addDisabled bool
)

var accountsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		err = store.Add(cmd.Context(), account.Account{
			ID:      addID,
			Name:    addName,
			Secret:  addSecret,
			Enabled: !addDisabled,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", addID)
		return nil
	},
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		accounts, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no accounts stored")
			return nil
		}
		for _, a := range accounts {
			state := "disabled"
			if a.Enabled {
				state = "enabled"
			}
			name := a.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-20s %s\n", a.ID, name, state)
		}
		return nil
	},
}

var accountsEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, args[0], true)
	},
}

var accountsDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable an account without removing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(cmd, args[0], false)
	},
}

var accountsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
		return nil
	},
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a store encryption key",
	Long:  "Generate a fresh store key. Put it in the config as store.key (or AUTOCLIC_STORE_KEY) before adding accounts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := account.GenerateKey()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

func openStore() (*account.Store, error) {
	return account.NewStore(cfg.Store.Path, account.WithKey(cfg.Store.Key))
}

func setEnabled(cmd *cobra.Command, id string, enabled bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.SetEnabled(cmd.Context(), id, enabled); err != nil {
		return err
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, id)
	return nil
}

func init() {
	accountsAddCmd.Flags().StringVar(&addID, "id", "", "portal login identifier (required)")
	accountsAddCmd.Flags().StringVar(&addName, "name", "", "display name")
	accountsAddCmd.Flags().StringVar(&addSecret, "secret", "", "portal password (required)")
	accountsAddCmd.Flags().BoolVar(&addDisabled, "disabled", false, "store the account but leave it out of runs")
	_ = accountsAddCmd.MarkFlagRequired("id")
	_ = accountsAddCmd.MarkFlagRequired("secret")

	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsEnableCmd)
	accountsCmd.AddCommand(accountsDisableCmd)
	accountsCmd.AddCommand(accountsRemoveCmd)
}
