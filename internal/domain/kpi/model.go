package kpi

import (
	"encoding/json"
	"time"
)

// StoredNotFound is the value persisted and serialized for a metric that
// could not be computed from the available data. It is distinct from a
// valid zero and must never enter an aggregation.
const StoredNotFound = -1

// MetricValue is a metric reading that may be absent. The zero value is
// "not found"; use Value to construct a present reading.
type MetricValue struct {
	Val   float64
	Found bool
}

// Value constructs a present metric value.
func Value(v float64) MetricValue {
	return MetricValue{Val: v, Found: true}
}

// NoValue constructs an absent metric value.
func NoValue() MetricValue {
	return MetricValue{}
}

// ToStored maps the value to its persisted representation (-1 when absent).
func (m MetricValue) ToStored() float64 {
	if !m.Found {
		return StoredNotFound
	}
	return m.Val
}

// FromStored maps a persisted representation back to a MetricValue.
func FromStored(v float64) MetricValue {
	if v == StoredNotFound {
		return NoValue()
	}
	return Value(v)
}

// MarshalJSON serializes the value as a bare number, -1 when absent.
func (m MetricValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToStored())
}

// UnmarshalJSON parses the stored representation, treating -1 as absent.
func (m *MetricValue) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = FromStored(v)
	return nil
}

// Metric identifies a KPI series.
type Metric string

const (
	MetricMTTD           Metric = "MTTD"
	MetricMTTR           Metric = "MTTR"
	MetricFalseAlarmRate Metric = "FALSE_ALARM_RATE"
	MetricSMS            Metric = "SMS"
)

// IsValid reports whether the metric is a known series.
func (m Metric) IsValid() bool {
	switch m {
	case MetricMTTD, MetricMTTR, MetricFalseAlarmRate, MetricSMS:
		return true
	}
	return false
}

// Period identifies a query time span.
type Period string

const (
	PeriodH24 Period = "H24"
	PeriodD7  Period = "D7"
)

// IsValid reports whether the period is supported.
func (p Period) IsValid() bool {
	return p == PeriodH24 || p == PeriodD7
}

// Duration returns the wall-clock span the period covers.
func (p Period) Duration() time.Duration {
	if p == PeriodD7 {
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}

// MaturityLevel is the discrete classification derived from the composite score.
type MaturityLevel string

const (
	LevelUnknown               MaturityLevel = "UNKNOWN"
	LevelInitial               MaturityLevel = "INITIAL"
	LevelManaged               MaturityLevel = "MANAGED"
	LevelDefined               MaturityLevel = "DEFINED"
	LevelQuantitativelyManaged MaturityLevel = "QUANTITATIVELY_MANAGED"
	LevelOptimizing            MaturityLevel = "OPTIMIZING"
)

// Alert categories
const (
	CategoryPhishing     = "PHISHING"
	CategoryMalware      = "MALWARE"
	CategoryIntrusion    = "INTRUSION"
	CategoryDataLeak     = "DATA_LEAK"
	CategoryBruteForce   = "BRUTE_FORCE"
	CategoryPolicyBreach = "POLICY_BREACH"
	CategoryOther        = "OTHER"
)

var knownCategories = map[string]struct{}{
	CategoryPhishing:     {},
	CategoryMalware:      {},
	CategoryIntrusion:    {},
	CategoryDataLeak:     {},
	CategoryBruteForce:   {},
	CategoryPolicyBreach: {},
	CategoryOther:        {},
}

// NormalizeCategory maps an upstream category to the known set, falling
// back to OTHER.
func NormalizeCategory(c string) string {
	if _, ok := knownCategories[c]; ok {
		return c
	}
	return CategoryOther
}

// AlertForKpi is the per-alert slice of data the KPI pass consumes. It is
// constructed per fetch and discarded after the snapshot job finishes.
type AlertForKpi struct {
	ID                      string
	CreatedAt               time.Time
	ResolvedAt              *time.Time
	OldestCorrelatedEventAt time.Time
	Category                string
	IsFalseAlarm            bool
	// IsValid is cleared when the upstream payload failed contract
	// validation; invalid records are excluded from all KPI math.
	IsValid bool
}

// ComputedKpi is the aggregate produced from one validated alert batch.
type ComputedKpi struct {
	MttdMinutes     MetricValue
	MttrMinutes     MetricValue
	MttdSampleCount int
	MttrSampleCount int
	TotalAlerts     int
	ResolvedAlerts  int
	FalseAlarms     int
	FalseAlarmRate  MetricValue
	ScoreValue      MetricValue
	MaturityLevel   MaturityLevel
	Categories      map[string]int
}

// Snapshot is one immutable hourly KPI record, keyed by its half-open
// UTC window [WindowFrom, WindowTo).
type Snapshot struct {
	ID              int64
	WindowFrom      time.Time
	WindowTo        time.Time
	MttdMinutes     MetricValue
	MttrMinutes     MetricValue
	MttdSampleCount int
	MttrSampleCount int
	TotalAlerts     int
	ResolvedAlerts  int
	FalseAlarms     int
	FalseAlarmRate  MetricValue
	ScoreValue      MetricValue
	MaturityLevel   MaturityLevel
	CreatedAt       time.Time
}

// OpenAlerts derives the open count from the stored totals.
func (s *Snapshot) OpenAlerts() int {
	return s.TotalAlerts - s.ResolvedAlerts
}

// CategoryCount is a per-snapshot, per-category alert count.
type CategoryCount struct {
	SnapshotID int64
	Category   string
	Count      int
}

// TrendPoint is one point of a metric time-series.
type TrendPoint struct {
	Timestamp time.Time   `json:"timestamp"`
	Value     MetricValue `json:"value"`
}

// Summary is the flat read-side view of the latest snapshot.
type Summary struct {
	WindowFrom     time.Time     `json:"window_from"`
	WindowTo       time.Time     `json:"window_to"`
	MttdMinutes    MetricValue   `json:"mttd_minutes"`
	MttrMinutes    MetricValue   `json:"mttr_minutes"`
	TotalAlerts    int           `json:"total_alerts"`
	ResolvedAlerts int           `json:"resolved_alerts"`
	OpenAlerts     int           `json:"open_alerts"`
	FalseAlarms    int           `json:"false_alarms"`
	FalseAlarmRate MetricValue   `json:"false_alarm_rate"`
	ScoreValue     MetricValue   `json:"score_value"`
	MaturityLevel  MaturityLevel `json:"maturity_level"`
	HasData        bool          `json:"has_data"`
}
