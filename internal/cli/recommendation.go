package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/socpulse/maturity/pkg/client"
)

func newRecommendationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommendation",
		Short: "Manage recommendations",
	}

	cmd.AddCommand(newRecommendationListCmd())
	cmd.AddCommand(newRecommendationGenerateCmd())

	return cmd
}

func newRecommendationListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the latest generated recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			recs, err := apiClient.Recommendations().List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list recommendations: %w", err)
			}

			return renderRecommendations(recs)
		},
	}
}

func newRecommendationGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate a fresh recommendation set from the current KPI state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			recs, err := apiClient.Recommendations().Generate(ctx)
			if err != nil {
				return fmt.Errorf("failed to generate recommendations: %w", err)
			}

			fmt.Printf("Generated %d recommendations\n\n", len(recs))
			return renderRecommendations(recs)
		},
	}
}

func renderRecommendations(recs []client.Recommendation) error {
	format := getOutputFormat()
	if format != "table" {
		return printOutput(recs)
	}

	t := NewTable("ID", "PRIORITY", "EFFORT", "CATEGORY", "TITLE")
	for _, r := range recs {
		t.AddRow(
			strconv.FormatInt(r.ID, 10),
			formatPriority(r.Priority),
			r.Effort,
			r.Category,
			truncate(r.Title, 50),
		)
	}
	t.Render()
	return nil
}
