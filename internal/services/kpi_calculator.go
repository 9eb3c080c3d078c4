package services

import (
	"github.com/socpulse/maturity/internal/domain/kpi"
	"github.com/socpulse/maturity/internal/pkg/logger"
)

// KpiCalculator turns a validated alert batch into one computed KPI
// aggregate for a single window.
type KpiCalculator struct {
	logger *logger.Logger
}

// NewKpiCalculator creates a new KPI calculator
func NewKpiCalculator(log *logger.Logger) *KpiCalculator {
	return &KpiCalculator{logger: log}
}

// Compute runs the single aggregation pass over the batch. Invalid records
// are excluded from all math. Negative durations are excluded as samples
// rather than clamped, so clock skew cannot fabricate good KPIs.
func (c *KpiCalculator) Compute(alerts []kpi.AlertForKpi) *kpi.ComputedKpi {
	out := &kpi.ComputedKpi{
		Categories: make(map[string]int),
	}

	var mttdSumMinutes, mttrSumMinutes float64

	for _, a := range alerts {
		if !a.IsValid {
			continue
		}

		out.TotalAlerts++
		out.Categories[kpi.NormalizeCategory(a.Category)]++

		if a.IsFalseAlarm {
			out.FalseAlarms++
		}

		if a.ResolvedAt != nil {
			out.ResolvedAlerts++
			resolution := a.ResolvedAt.Sub(a.CreatedAt)
			if resolution >= 0 {
				mttrSumMinutes += resolution.Minutes()
				out.MttrSampleCount++
			} else {
				c.logger.WithFields(map[string]interface{}{
					"alert_id":    a.ID,
					"created_at":  a.CreatedAt,
					"resolved_at": *a.ResolvedAt,
				}).Warn("Negative resolution duration, sample excluded")
			}
		}

		detection := a.CreatedAt.Sub(a.OldestCorrelatedEventAt)
		if detection >= 0 {
			mttdSumMinutes += detection.Minutes()
			out.MttdSampleCount++
		} else {
			c.logger.WithFields(map[string]interface{}{
				"alert_id":        a.ID,
				"created_at":      a.CreatedAt,
				"oldest_event_at": a.OldestCorrelatedEventAt,
			}).Warn("Negative detection duration, sample excluded")
		}
	}

	if out.MttdSampleCount > 0 {
		out.MttdMinutes = kpi.Value(mttdSumMinutes / float64(out.MttdSampleCount))
	} else {
		out.MttdMinutes = kpi.NoValue()
	}

	if out.MttrSampleCount > 0 {
		out.MttrMinutes = kpi.Value(mttrSumMinutes / float64(out.MttrSampleCount))
	} else {
		out.MttrMinutes = kpi.NoValue()
	}

	if out.TotalAlerts > 0 {
		out.FalseAlarmRate = kpi.Value(float64(out.FalseAlarms) / float64(out.TotalAlerts))
	} else {
		out.FalseAlarmRate = kpi.NoValue()
	}

	out.ScoreValue = kpi.Score(out.MttdMinutes, out.MttrMinutes, out.FalseAlarmRate, out.TotalAlerts)
	out.MaturityLevel = kpi.MapScoreToLevel(out.ScoreValue)

	return out
}
