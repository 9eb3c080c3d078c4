package services

import (
	"testing"

	"github.com/socpulse/maturity/internal/domain/kpi"
)

func TestAggregationService_ResolveMetricValue(t *testing.T) {
	agg := NewAggregationService()

	snap := &kpi.Snapshot{
		MttdMinutes:    kpi.Value(12),
		MttrMinutes:    kpi.NoValue(),
		TotalAlerts:    10,
		FalseAlarms:    2,
		FalseAlarmRate: kpi.Value(0.2),
		ScoreValue:     kpi.Value(55),
	}

	tests := []struct {
		name   string
		snap   *kpi.Snapshot
		metric kpi.Metric
		want   kpi.MetricValue
	}{
		{"mttd present", snap, kpi.MetricMTTD, kpi.Value(12)},
		{"mttr absent", snap, kpi.MetricMTTR, kpi.NoValue()},
		{"false alarm rate", snap, kpi.MetricFalseAlarmRate, kpi.Value(0.2)},
		{"score", snap, kpi.MetricSMS, kpi.Value(55)},
		{"nil snapshot", nil, kpi.MetricMTTD, kpi.NoValue()},
		{"far with zero alerts", &kpi.Snapshot{FalseAlarmRate: kpi.Value(0)}, kpi.MetricFalseAlarmRate, kpi.NoValue()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agg.ResolveMetricValue(tt.snap, tt.metric); got != tt.want {
				t.Errorf("ResolveMetricValue() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAggregationService_WeightedAverageMetric(t *testing.T) {
	agg := NewAggregationService()

	t.Run("empty input", func(t *testing.T) {
		if got := agg.WeightedAverageMetric(nil, kpi.MetricMTTD); got.Found {
			t.Errorf("empty input should yield no value, got %+v", got)
		}
	})

	t.Run("single snapshot identity", func(t *testing.T) {
		snaps := []*kpi.Snapshot{{MttdMinutes: kpi.Value(15), MttdSampleCount: 4}}
		if got := agg.WeightedAverageMetric(snaps, kpi.MetricMTTD); got != kpi.Value(15) {
			t.Errorf("WeightedAverageMetric() = %+v, want 15", got)
		}
	})

	t.Run("weighting by sample count", func(t *testing.T) {
		snaps := []*kpi.Snapshot{
			{MttdMinutes: kpi.Value(10), MttdSampleCount: 1},
			{MttdMinutes: kpi.Value(40), MttdSampleCount: 3},
		}
		// (10*1 + 40*3) / 4 = 32.5
		if got := agg.WeightedAverageMetric(snaps, kpi.MetricMTTD); got != kpi.Value(32.5) {
			t.Errorf("WeightedAverageMetric() = %+v, want 32.5", got)
		}
	})

	t.Run("absent snapshots skipped", func(t *testing.T) {
		snaps := []*kpi.Snapshot{
			{MttrMinutes: kpi.NoValue()},
			{MttrMinutes: kpi.Value(60), MttrSampleCount: 2},
		}
		if got := agg.WeightedAverageMetric(snaps, kpi.MetricMTTR); got != kpi.Value(60) {
			t.Errorf("WeightedAverageMetric() = %+v, want 60", got)
		}
	})

	t.Run("all absent yields no value", func(t *testing.T) {
		snaps := []*kpi.Snapshot{
			{MttrMinutes: kpi.NoValue()},
			{MttrMinutes: kpi.NoValue()},
		}
		if got := agg.WeightedAverageMetric(snaps, kpi.MetricMTTR); got.Found {
			t.Errorf("all-absent input should yield no value, got %+v", got)
		}
	})

	t.Run("false alarm rate recomputed from raw counts", func(t *testing.T) {
		snaps := []*kpi.Snapshot{
			{TotalAlerts: 1, FalseAlarms: 1, FalseAlarmRate: kpi.Value(1)},
			{TotalAlerts: 99, FalseAlarms: 0, FalseAlarmRate: kpi.Value(0)},
		}
		// 1/100, not the 0.5 an unweighted average of rates would give.
		if got := agg.WeightedAverageMetric(snaps, kpi.MetricFalseAlarmRate); got != kpi.Value(0.01) {
			t.Errorf("WeightedAverageMetric(FAR) = %+v, want 0.01", got)
		}
	})

	t.Run("score weighted by alert volume", func(t *testing.T) {
		snaps := []*kpi.Snapshot{
			{ScoreValue: kpi.Value(40), TotalAlerts: 8},
			{ScoreValue: kpi.Value(80), TotalAlerts: 2},
		}
		// (40*8 + 80*2) / 10 = 48
		if got := agg.WeightedAverageMetric(snaps, kpi.MetricSMS); got != kpi.Value(48) {
			t.Errorf("WeightedAverageMetric(SMS) = %+v, want 48", got)
		}
	})
}
