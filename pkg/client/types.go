package client

import "time"

// NoValue is serialized in place of a metric that could not be computed.
// Callers must treat it as "absent", not as a reading of -1.
const NoValue = -1

// Summary is the latest hourly KPI snapshot
type Summary struct {
	WindowFrom     time.Time `json:"window_from"`
	WindowTo       time.Time `json:"window_to"`
	MttdMinutes    float64   `json:"mttd_minutes"`
	MttrMinutes    float64   `json:"mttr_minutes"`
	TotalAlerts    int       `json:"total_alerts"`
	ResolvedAlerts int       `json:"resolved_alerts"`
	OpenAlerts     int       `json:"open_alerts"`
	FalseAlarms    int       `json:"false_alarms"`
	FalseAlarmRate float64   `json:"false_alarm_rate"`
	ScoreValue     float64   `json:"score_value"`
	MaturityLevel  string    `json:"maturity_level"`
	HasData        bool      `json:"has_data"`
}

// TrendPoint is one point of a metric time-series
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Trend is a metric time-series over a period
type Trend struct {
	Metric string       `json:"metric"`
	Period string       `json:"period"`
	Points []TrendPoint `json:"points"`
}

// CategorySum is an aggregated per-category incident count
type CategorySum struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// IncidentsByCategory is the aggregated category breakdown over a period
type IncidentsByCategory struct {
	Period     string        `json:"period"`
	Categories []CategorySum `json:"categories"`
}

// Recommendation is one generated improvement suggestion
type Recommendation struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Rationale        string    `json:"rationale"`
	Priority         string    `json:"priority"`
	Effort           string    `json:"effort"`
	Category         string    `json:"category"`
	RelatedMetrics   []string  `json:"related_metrics"`
	SuggestedActions []string  `json:"suggested_actions"`
	CreatedAt        time.Time `json:"created_at"`
}

// BackfillResult reports how many hourly windows a backfill processed
type BackfillResult struct {
	WindowsProcessed int `json:"windows_processed"`
}
