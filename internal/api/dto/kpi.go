package dto

import (
	"time"

	"github.com/socpulse/maturity/internal/domain/kpi"
)

// KpiSummaryDTO is the wire shape of the latest KPI snapshot. Metric
// fields serialize as -1 when no value could be computed.
type KpiSummaryDTO struct {
	WindowFrom     time.Time         `json:"window_from"`
	WindowTo       time.Time         `json:"window_to"`
	MttdMinutes    kpi.MetricValue   `json:"mttd_minutes"`
	MttrMinutes    kpi.MetricValue   `json:"mttr_minutes"`
	TotalAlerts    int               `json:"total_alerts"`
	ResolvedAlerts int               `json:"resolved_alerts"`
	OpenAlerts     int               `json:"open_alerts"`
	FalseAlarms    int               `json:"false_alarms"`
	FalseAlarmRate kpi.MetricValue   `json:"false_alarm_rate"`
	ScoreValue     kpi.MetricValue   `json:"score_value"`
	MaturityLevel  kpi.MaturityLevel `json:"maturity_level"`
	HasData        bool              `json:"has_data"`
}

// TrendDTO is the wire shape of a metric time-series
type TrendDTO struct {
	Metric kpi.Metric       `json:"metric"`
	Period kpi.Period       `json:"period"`
	Points []kpi.TrendPoint `json:"points"`
}

// IncidentsByCategoryDTO is the wire shape of aggregated category counts
type IncidentsByCategoryDTO struct {
	Period     kpi.Period        `json:"period"`
	Categories []kpi.CategorySum `json:"categories"`
}

// BackfillRequest asks for snapshot recomputation over a historical range
type BackfillRequest struct {
	From time.Time `json:"from" validate:"required"`
	To   time.Time `json:"to" validate:"required"`
}

// BackfillResponse reports how many hourly windows were processed
type BackfillResponse struct {
	WindowsProcessed int `json:"windows_processed"`
}

// SummaryFromDomain maps a domain summary to its DTO
func SummaryFromDomain(s *kpi.Summary) KpiSummaryDTO {
	return KpiSummaryDTO{
		WindowFrom:     s.WindowFrom,
		WindowTo:       s.WindowTo,
		MttdMinutes:    s.MttdMinutes,
		MttrMinutes:    s.MttrMinutes,
		TotalAlerts:    s.TotalAlerts,
		ResolvedAlerts: s.ResolvedAlerts,
		OpenAlerts:     s.OpenAlerts,
		FalseAlarms:    s.FalseAlarms,
		FalseAlarmRate: s.FalseAlarmRate,
		ScoreValue:     s.ScoreValue,
		MaturityLevel:  s.MaturityLevel,
		HasData:        s.HasData,
	}
}
