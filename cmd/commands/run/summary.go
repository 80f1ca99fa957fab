package run

import (
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sachinbhirud1998/Status/internal/domain"
	"github.com/sachinbhirud1998/Status/internal/report"
	"github.com/sachinbhirud1998/Status/internal/runner"
)

var (
	headingStyle  = lipgloss.NewStyle().Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// printSummary renders the run outcome to the terminal: account header,
// platform counts, then any threshold alerts.
func printSummary(cmd *cobra.Command, out *runner.Outcome) {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, headingStyle.Render("Fleet status"))
	fmt.Fprintf(w, "Account %s, %d instances (%d running)\n\n",
		out.AccountNumber, len(out.Instances), len(out.Metrics))

	counts := domain.CountByPlatform(out.Instances)
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "PLATFORM\tRUNNING\tSTOPPED\tTOTAL")
	fmt.Fprintln(tw, "--------\t-------\t-------\t-----")
	for _, family := range domain.Families() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n",
			family, counts.Running[family], counts.Stopped[family], counts.Total(family))
	}
	tw.Flush()
	fmt.Fprintln(w)

	if len(out.Warnings) == 0 && len(out.Criticals) == 0 {
		fmt.Fprintln(w, okStyle.Render("No threshold alerts."))
		return
	}

	printAlerts(cmd, "Action Required", criticalStyle, out.Criticals)
	printAlerts(cmd, "Warning", warningStyle, out.Warnings)
}

func printAlerts(cmd *cobra.Command, title string, style lipgloss.Style, alerts []report.Alert) {
	if len(alerts) == 0 {
		return
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, style.Bold(true).Render(title))
	for _, alert := range alerts {
		fmt.Fprintf(w, "  %s\t%s\t%s\n",
			alert.InstanceName, alert.Metric, style.Render(alert.Utilization))
	}
	fmt.Fprintln(w)
}
