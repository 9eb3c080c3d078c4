package client

import (
	"context"
	"time"
)

// SnapshotService handles snapshot control API calls
type SnapshotService struct {
	client *Client
}

// backfillRequest is the wire shape of a backfill request
type backfillRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Run triggers an immediate snapshot for the last completed hour
func (s *SnapshotService) Run(ctx context.Context) error {
	return s.client.doRequest(ctx, "POST", "/api/v1/snapshots/run", nil, nil)
}

// Backfill recomputes snapshots for every hourly window in [from, to)
func (s *SnapshotService) Backfill(ctx context.Context, from, to time.Time) (*BackfillResult, error) {
	var result BackfillResult
	err := s.client.doRequest(ctx, "POST", "/api/v1/snapshots/backfill", backfillRequest{From: from, To: to}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
