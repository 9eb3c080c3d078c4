package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newTrendCmd() *cobra.Command {
	var metric, period string

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show a metric's time-series",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			trend, err := apiClient.Kpi().Trend(ctx, metric, period)
			if err != nil {
				return fmt.Errorf("failed to get trend: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(trend)
			}

			t := NewTable("TIMESTAMP", "VALUE")
			for _, p := range trend.Points {
				t.AddRow(
					p.Timestamp.Format("2006-01-02 15:04"),
					formatMetric(p.Value),
				)
			}
			t.Render()
			fmt.Printf("\n%d points (%s over %s)\n", len(trend.Points), trend.Metric, trend.Period)
			return nil
		},
	}

	cmd.Flags().StringVar(&metric, "metric", "SMS", "metric: MTTD, MTTR, FALSE_ALARM_RATE, SMS")
	cmd.Flags().StringVar(&period, "period", "H24", "period: H24 or D7")

	return cmd
}
