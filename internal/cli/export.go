package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leadledger/leadledger/internal/activity"
	"github.com/leadledger/leadledger/internal/config"
	"github.com/leadledger/leadledger/internal/report"
)

var (
	exportOut      string
	exportPlatform string
	exportLeadType string
	exportLimit    int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export outreach targets as a CSV for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		store, err := activity.Open(cfg.Paths.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		out := exportOut
		if out == "" {
			out = filepath.Join(cfg.Paths.DataDir, "targets.csv")
		}
		n, err := report.ExportTargets(store, out, activity.LeadFilter{
			Platform: exportPlatform,
			LeadType: exportLeadType,
			Limit:    exportLimit,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d leads to %s\n", n, out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output CSV path (default <data-dir>/targets.csv)")
	exportCmd.Flags().StringVar(&exportPlatform, "platform", "email", "lead platform filter")
	exportCmd.Flags().StringVar(&exportLeadType, "type", "job", "lead type filter")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "max rows (0 means all)")
}
