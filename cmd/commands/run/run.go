package run

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sachinbhirud1998/Status/internal/config"
	"github.com/sachinbhirud1998/Status/internal/logging"
	"github.com/sachinbhirud1998/Status/internal/runlog"
	"github.com/sachinbhirud1998/Status/internal/runner"
)

// NewCommand returns the "run" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate and upload a fleet status report",
		Long: `Generate a utilization status report for the EC2 fleet and upload
it to the configured S3 bucket.

Configuration comes from STATUS_REPORT_* environment variables; AWS
credentials from the default chain.

Examples:
  # Generate and upload
  status-report run

  # Render locally without touching S3
  status-report run --skip-upload --out report.xlsx`,
		RunE:         runReport,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("skip-upload", false, "Render the report without uploading it to S3")
	cmd.Flags().String("out", "", "Also write the workbook to this local path")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the local history")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	skipUpload, _ := cmd.Flags().GetBool("skip-upload")
	outPath, _ := cmd.Flags().GetString("out")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if verbose {
		logger = logging.New()
	}
	defer logger.Sync()

	ctx := context.Background()
	r, err := runner.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	r.SkipUpload = skipUpload

	var out *runner.Outcome
	var runErr error

	accessible := os.Getenv("ACCESSIBLE") != ""
	spinErr := spinner.New().
		Title("Collecting fleet metrics...").
		Accessible(accessible).
		Output(cmd.ErrOrStderr()).
		Action(func() {
			out, runErr = r.Run(ctx)
		}).
		Run()
	if spinErr != nil {
		return spinErr
	}

	if !noHistory {
		recordHistory(cmd, cfg, out, runErr)
	}
	if runErr != nil {
		return runErr
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, out.Workbook, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Workbook written to %s\n", outPath)
	}

	printSummary(cmd, out)

	if skipUpload {
		fmt.Fprintln(cmd.OutOrStdout(), "Upload skipped.")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Report uploaded to s3://%s/%s\n", out.Bucket, out.Key)
	}
	return nil
}

// recordHistory saves the run outcome locally. History is best effort;
// a failure here only warns.
func recordHistory(cmd *cobra.Command, cfg *config.Config, out *runner.Outcome, runErr error) {
	record := runlog.RunRecord{
		Region: cfg.Region,
		Status: runlog.StatusSuccess,
	}
	if runErr != nil {
		record.Status = runlog.StatusError
		record.ErrorMessage = runErr.Error()
	}
	if out != nil {
		record.Account = out.AccountNumber
		record.TotalInstances = len(out.Instances)
		record.RunningInstances = len(out.Metrics)
		record.Warnings = len(out.Warnings)
		record.Criticals = len(out.Criticals)
		record.ReportKey = out.Key
		record.CreatedAt = out.GeneratedAt
	}

	repo, err := runlog.Open()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to open run history: %v\n", err)
		return
	}
	defer repo.Close()

	if err := repo.Save(&record); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to record run history: %v\n", err)
	}
}
