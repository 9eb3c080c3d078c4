package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Control snapshot computation",
	}

	cmd.AddCommand(newSnapshotRunCmd())
	cmd.AddCommand(newSnapshotBackfillCmd())

	return cmd
}

func newSnapshotRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Compute a snapshot for the last completed hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := apiClient.Snapshots().Run(ctx); err != nil {
				return fmt.Errorf("failed to trigger snapshot run: %w", err)
			}

			fmt.Println("Snapshot run started")
			return nil
		},
	}
}

func newSnapshotBackfillCmd() *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Recompute snapshots over a historical range",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := time.Parse(time.RFC3339, fromStr)
			if err != nil {
				return fmt.Errorf("invalid --from timestamp (want RFC3339): %w", err)
			}
			to, err := time.Parse(time.RFC3339, toStr)
			if err != nil {
				return fmt.Errorf("invalid --to timestamp (want RFC3339): %w", err)
			}

			ctx := context.Background()
			result, err := apiClient.Snapshots().Backfill(ctx, from, to)
			if err != nil {
				return fmt.Errorf("failed to backfill snapshots: %w", err)
			}

			fmt.Printf("Backfill complete: %d windows processed\n", result.WindowsProcessed)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "range start (RFC3339, inclusive)")
	cmd.Flags().StringVar(&toStr, "to", "", "range end (RFC3339, exclusive)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
