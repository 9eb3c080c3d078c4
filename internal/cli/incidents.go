package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newIncidentsCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "incidents",
		Short: "Show incident counts by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			incidents, err := apiClient.Kpi().IncidentsByCategory(ctx, period)
			if err != nil {
				return fmt.Errorf("failed to get incidents by category: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(incidents)
			}

			t := NewTable("CATEGORY", "COUNT")
			total := 0
			for _, c := range incidents.Categories {
				t.AddRow(c.Category, strconv.Itoa(c.Count))
				total += c.Count
			}
			t.Render()
			fmt.Printf("\n%d incidents over %s\n", total, incidents.Period)
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "D7", "period: H24 or D7")

	return cmd
}
