package services

import (
	"github.com/socpulse/maturity/internal/domain/kpi"
)

// AggregationService implements kpi.Aggregator. Combining hourly snapshots
// into larger windows weights each snapshot by its own sample counts: an
// 8-alert hour with 2 resolutions must not count equally with a 200-alert
// hour with 150 resolutions.
type AggregationService struct{}

// NewAggregationService creates a new aggregation service
func NewAggregationService() kpi.Aggregator {
	return &AggregationService{}
}

// ResolveMetricValue reads one metric off one snapshot
func (s *AggregationService) ResolveMetricValue(snap *kpi.Snapshot, metric kpi.Metric) kpi.MetricValue {
	if snap == nil {
		return kpi.NoValue()
	}
	switch metric {
	case kpi.MetricMTTD:
		return snap.MttdMinutes
	case kpi.MetricMTTR:
		return snap.MttrMinutes
	case kpi.MetricFalseAlarmRate:
		if snap.TotalAlerts == 0 {
			return kpi.NoValue()
		}
		return snap.FalseAlarmRate
	case kpi.MetricSMS:
		return snap.ScoreValue
	default:
		return kpi.NoValue()
	}
}

// WeightedAverageMetric combines many snapshots into one value
func (s *AggregationService) WeightedAverageMetric(snapshots []*kpi.Snapshot, metric kpi.Metric) kpi.MetricValue {
	if len(snapshots) == 0 {
		return kpi.NoValue()
	}

	// The false-alarm rate is recomputed from raw counts, never averaged
	// from per-snapshot rates: a 1/1 window and a 0/99 window aggregate to
	// 1/100, not 0.5.
	if metric == kpi.MetricFalseAlarmRate {
		var falseAlarms, totalAlerts int
		for _, snap := range snapshots {
			falseAlarms += snap.FalseAlarms
			totalAlerts += snap.TotalAlerts
		}
		if totalAlerts == 0 {
			return kpi.NoValue()
		}
		return kpi.Value(float64(falseAlarms) / float64(totalAlerts))
	}

	var weightedSum, weightSum float64
	for _, snap := range snapshots {
		value := s.ResolveMetricValue(snap, metric)
		if !value.Found {
			continue
		}
		weight := s.metricWeight(snap, metric)
		if weight == 0 {
			continue
		}
		weightedSum += value.Val * float64(weight)
		weightSum += float64(weight)
	}

	if weightSum == 0 {
		return kpi.NoValue()
	}
	return kpi.Value(weightedSum / weightSum)
}

// metricWeight returns the snapshot's weight for the metric: its own
// sample count for durations, its alert volume for the composite score.
func (s *AggregationService) metricWeight(snap *kpi.Snapshot, metric kpi.Metric) int {
	switch metric {
	case kpi.MetricMTTD:
		return snap.MttdSampleCount
	case kpi.MetricMTTR:
		return snap.MttrSampleCount
	case kpi.MetricSMS:
		return snap.TotalAlerts
	default:
		return 0
	}
}
