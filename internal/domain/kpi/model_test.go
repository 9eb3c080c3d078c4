package kpi

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMetricValueStoredRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   MetricValue
	}{
		{"present value", Value(12.5)},
		{"present zero", Value(0)},
		{"absent value", NoValue()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromStored(tt.in.ToStored()); got != tt.in {
				t.Errorf("FromStored(ToStored()) = %+v, want %+v", got, tt.in)
			}
		})
	}
}

func TestMetricValueJSON(t *testing.T) {
	b, err := json.Marshal(Value(37.5))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != "37.5" {
		t.Errorf("Marshal(Value(37.5)) = %s, want 37.5", b)
	}

	b, err = json.Marshal(NoValue())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != "-1" {
		t.Errorf("Marshal(NoValue()) = %s, want -1", b)
	}

	var v MetricValue
	if err := json.Unmarshal([]byte("-1"), &v); err != nil {
		t.Fatalf("Unmarshal(-1) error = %v", err)
	}
	if v.Found {
		t.Error("Unmarshal(-1) produced a present value, want absent")
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory("PHISHING"); got != CategoryPhishing {
		t.Errorf("NormalizeCategory(PHISHING) = %s", got)
	}
	if got := NormalizeCategory("ZERO_DAY"); got != CategoryOther {
		t.Errorf("NormalizeCategory(ZERO_DAY) = %s, want OTHER", got)
	}
	if got := NormalizeCategory(""); got != CategoryOther {
		t.Errorf("NormalizeCategory(\"\") = %s, want OTHER", got)
	}
}

func TestSnapshotOpenAlerts(t *testing.T) {
	s := &Snapshot{
		WindowFrom:     time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		WindowTo:       time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
		TotalAlerts:    10,
		ResolvedAlerts: 7,
	}
	if got := s.OpenAlerts(); got != 3 {
		t.Errorf("OpenAlerts() = %d, want 3", got)
	}
}

func TestPeriodDuration(t *testing.T) {
	if got := PeriodH24.Duration(); got != 24*time.Hour {
		t.Errorf("H24 duration = %v", got)
	}
	if got := PeriodD7.Duration(); got != 7*24*time.Hour {
		t.Errorf("D7 duration = %v", got)
	}
}

func TestMetricIsValid(t *testing.T) {
	for _, m := range []Metric{MetricMTTD, MetricMTTR, MetricFalseAlarmRate, MetricSMS} {
		if !m.IsValid() {
			t.Errorf("%s should be valid", m)
		}
	}
	if Metric("LATENCY").IsValid() {
		t.Error("LATENCY should not be valid")
	}
	if Period("D30").IsValid() {
		t.Error("D30 should not be valid")
	}
}
