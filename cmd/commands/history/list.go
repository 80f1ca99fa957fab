package history

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sachinbhirud1998/Status/internal/runlog"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent report runs",
		Long: `List recent report runs recorded locally.

Examples:
  status-report history list
  status-report history list --limit 50
  status-report history list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of runs to display")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}

	repo, err := runlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	records, err := repo.ListRecent(limit)
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}
	if output != "table" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No report runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACCOUNT\tINSTANCES\tRUNNING\tWARN\tCRIT\tSTATUS\tREPORT")
	fmt.Fprintln(w, "----\t-------\t---------\t-------\t----\t----\t------\t------")
	for _, record := range records {
		report := record.ReportKey
		if report == "" {
			report = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			record.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			record.Account,
			record.TotalInstances,
			record.RunningInstances,
			record.Warnings,
			record.Criticals,
			record.Status,
			report,
		)
	}
	w.Flush()
	return nil
}
