package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leadledger/leadledger/internal/activity"
	"github.com/leadledger/leadledger/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🏷️ LeadLedger Version")
		fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\n", version)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show ledger row counts and database location",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		printHeader("📊 LeadLedger Stats")
		fmt.Fprintf(cmd.OutOrStdout(), "Database: %s\n", cfg.Paths.DBPath)
		if _, err := os.Stat(cfg.Paths.DBPath); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Status:   ✗ Not found (nothing recorded yet)")
			return nil
		}

		store, err := activity.Open(cfg.Paths.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		counts, err := store.CountRows()
		if err != nil {
			return err
		}
		for _, table := range []string{"leads", "events", "blocklist"} {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d\n", table+":", counts[table])
		}
		return nil
	},
}
