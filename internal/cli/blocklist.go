package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadledger/leadledger/internal/activity"
	"github.com/leadledger/leadledger/internal/config"
)

var blocklistReason string

var blocklistCmd = &cobra.Command{
	Use:   "blocklist",
	Short: "Manage contacts excluded from all outreach",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var blocklistAddCmd = &cobra.Command{
	Use:   "add <contact>",
	Short: "Add a contact to the blocklist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		contact := activity.NormalizeContact(args[0])
		if err := store.AddToBlocklist(contact, blocklistReason); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Blocked %s\n", contact)
		return nil
	},
}

var blocklistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List blocked contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Blocklist()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Blocklist is empty")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", e.Contact, e.Reason, e.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

func openStore() (*activity.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return activity.Open(cfg.Paths.DBPath)
}

func init() {
	blocklistAddCmd.Flags().StringVar(&blocklistReason, "reason", "", "why the contact is blocked (e.g. bounce, unsubscribe)")
	blocklistCmd.AddCommand(blocklistAddCmd)
	blocklistCmd.AddCommand(blocklistListCmd)
}
