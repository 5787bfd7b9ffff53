package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadledger/leadledger/internal/activity"
	"github.com/leadledger/leadledger/internal/config"
	"github.com/leadledger/leadledger/internal/report"
)

var (
	reportDate string
	reportJSON bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the daily quota report",
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

		day := reportDate
		if day == "" {
			day = activity.Day(time.Now())
		}
		quota := activity.QuotaPolicy{
			DailyLimit:       cfg.Email.RateLimit.DailyLimit,
			MaxDailyIncrease: cfg.Email.RateLimit.MaxDailyIncrease,
		}
		types := cfg.Outreach.ContactEvents
		if len(types) == 0 {
			types = activity.ContactEvents
		}
		types = append(append([]string{}, types...), "email_skipped", "email_failed")

		rep, err := report.Daily(store, quota, day, types)
		if err != nil {
			return err
		}

		if reportJSON {
			raw, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		}

		printHeader("📅 Daily Report")
		fmt.Fprintf(cmd.OutOrStdout(), "Day:       %s\n", rep.Day)
		fmt.Fprintf(cmd.OutOrStdout(), "Sent:      %d\n", rep.Sent)
		fmt.Fprintf(cmd.OutOrStdout(), "Cap:       %d\n", rep.Cap)
		fmt.Fprintf(cmd.OutOrStdout(), "Remaining: %d\n", rep.Remaining)
		if len(rep.ByType) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Events:")
			for et, n := range rep.ByType {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s: %d\n", et, n)
			}
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "day to report on (YYYY-MM-DD, default today)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "emit machine-readable JSON")
}
