package kpi

import "context"

// CategorySum is an aggregated per-category incident count over a period.
type CategorySum struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Service defines the read-side interface over stored snapshots
type Service interface {
	// GetCurrent returns the latest available snapshot as a flat summary.
	// With no stored snapshots it returns an empty summary, not an error.
	GetCurrent(ctx context.Context) (*Summary, error)

	// GetTrend returns the metric's time-series over the period: one point
	// per stored hourly snapshot for H24, one weighted point per UTC
	// calendar day for D7.
	GetTrend(ctx context.Context, metric Metric, period Period) ([]TrendPoint, error)

	// GetIncidentsByCategory sums category counts over the period, sorted
	// descending by count.
	GetIncidentsByCategory(ctx context.Context, period Period) ([]CategorySum, error)
}

// Aggregator combines snapshots into single metric values.
type Aggregator interface {
	// ResolveMetricValue reads one metric off one snapshot.
	ResolveMetricValue(s *Snapshot, metric Metric) MetricValue

	// WeightedAverageMetric combines many snapshots into one value,
	// weighting by each snapshot's own sample counts and skipping
	// snapshots whose value is absent.
	WeightedAverageMetric(snapshots []*Snapshot, metric Metric) MetricValue
}
