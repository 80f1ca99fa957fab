package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sachinbhirud1998/Status/cmd/commands/history"
	"github.com/sachinbhirud1998/Status/cmd/commands/run"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "status-report",
		Short: "Generate EC2 fleet utilization status reports",
		Long: `status-report polls CloudWatch utilization metrics for every EC2
instance in the account, renders a formatted spreadsheet with platform
counts, threshold alerts, and per-instance CPU/memory/disk usage, and
uploads it to S3.

The same binary is the Lambda deployment package; invoked outside
Lambda it behaves as a normal CLI.

Quick start:
  status-report run                # Generate and upload a report
  status-report run --skip-upload --out report.xlsx
  status-report history list       # Past runs recorded locally`,
	}

	cmd.AddCommand(run.NewCommand())
	cmd.AddCommand(history.NewCommand())

	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
