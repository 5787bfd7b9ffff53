package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/leadledger/leadledger/internal/cli.version=1.2.3"
	version = "0.4.0"
	logo    = "\n" +
		"  _                   _ _              _\n" +
		" | |    ___  __ _  __| | |    ___  __| | __ _  ___ _ __\n" +
		" | |   / _ \\/ _` |/ _` | |   / _ \\/ _` |/ _` |/ _ \\ '__|\n" +
		" | |__|  __/ (_| | (_| | |__|  __/ (_| | (_| |  __/ |\n" +
		" |_____\\___|\\__,_|\\__,_|_____\\___|\\__,_|\\__, |\\___|_|\n" +
		"                                        |___/\n"
)

var rootCmd = &cobra.Command{
	Use:   "leadledger",
	Short: "LeadLedger - outreach activity ledger",
	Long:  color.CyanString(logo) + "\nA local append-only ledger for job-search outreach: leads, events, quotas.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(blocklistCmd)
}
