package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current KPI summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			summary, err := apiClient.Kpi().Current(ctx)
			if err != nil {
				return fmt.Errorf("failed to get current KPIs: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(summary)
			}

			fmt.Println("Security Maturity Status")
			fmt.Println(strings.Repeat("=", 40))

			if !summary.HasData {
				fmt.Println("  No snapshots stored yet")
				fmt.Printf("  Maturity level: %s\n", summary.MaturityLevel)
				return nil
			}

			fmt.Printf("  Window:          %s to %s\n",
				summary.WindowFrom.Format("2006-01-02 15:04"),
				summary.WindowTo.Format("2006-01-02 15:04"))
			fmt.Printf("  MTTD:            %s minutes\n", formatMetric(summary.MttdMinutes))
			fmt.Printf("  MTTR:            %s minutes\n", formatMetric(summary.MttrMinutes))
			fmt.Printf("  Alerts:          %d total, %d resolved, %d open\n",
				summary.TotalAlerts, summary.ResolvedAlerts, summary.OpenAlerts)
			fmt.Printf("  False alarms:    %d (rate %s)\n",
				summary.FalseAlarms, formatMetric(summary.FalseAlarmRate))
			fmt.Printf("  Maturity score:  %s\n", formatMetric(summary.ScoreValue))
			fmt.Printf("  Maturity level:  %s\n", summary.MaturityLevel)
			return nil
		},
	}
}
