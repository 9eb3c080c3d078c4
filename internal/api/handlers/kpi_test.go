package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/socpulse/maturity/internal/api/handlers"
	"github.com/socpulse/maturity/internal/cache"
	"github.com/socpulse/maturity/internal/domain/kpi"
	"github.com/socpulse/maturity/internal/pkg/logger"
	"github.com/socpulse/maturity/internal/services"
	"github.com/socpulse/maturity/internal/testutil"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func newKpiHandler(repo kpi.Repository) *handlers.KpiHandler {
	log := testLogger()
	svc := services.NewTrendService(repo, services.NewAggregationService(), cache.Disabled{}, 0, log)
	return handlers.NewKpiHandler(svc, log)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return env
}

func TestKpiHandler_GetCurrent(t *testing.T) {
	t.Run("empty store serves sentinel values", func(t *testing.T) {
		h := newKpiHandler(testutil.NewMockSnapshotRepository())

		rec := httptest.NewRecorder()
		h.GetCurrent(rec, httptest.NewRequest(http.MethodGet, "/api/v1/kpi/current", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		env := decodeEnvelope(t, rec)
		if !env.Success {
			t.Fatal("success should be true")
		}

		var body struct {
			MttdMinutes   float64 `json:"mttd_minutes"`
			ScoreValue    float64 `json:"score_value"`
			MaturityLevel string  `json:"maturity_level"`
			HasData       bool    `json:"has_data"`
		}
		if err := json.Unmarshal(env.Data, &body); err != nil {
			t.Fatalf("data is not a summary: %v", err)
		}
		if body.MttdMinutes != -1 || body.ScoreValue != -1 {
			t.Errorf("absent metrics should serialize as -1, got mttd=%v score=%v", body.MttdMinutes, body.ScoreValue)
		}
		if body.MaturityLevel != "UNKNOWN" {
			t.Errorf("maturity_level = %s, want UNKNOWN", body.MaturityLevel)
		}
		if body.HasData {
			t.Error("has_data should be false")
		}
	})

	t.Run("stored snapshot is served", func(t *testing.T) {
		repo := testutil.NewMockSnapshotRepository()
		from := time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC)
		repo.UpsertSnapshot(context.Background(), &kpi.Snapshot{
			WindowFrom:     from,
			WindowTo:       from.Add(time.Hour),
			MttdMinutes:    kpi.Value(14),
			TotalAlerts:    8,
			ResolvedAlerts: 5,
			ScoreValue:     kpi.Value(63),
			MaturityLevel:  kpi.LevelQuantitativelyManaged,
		})
		h := newKpiHandler(repo)

		rec := httptest.NewRecorder()
		h.GetCurrent(rec, httptest.NewRequest(http.MethodGet, "/api/v1/kpi/current", nil))

		env := decodeEnvelope(t, rec)
		var body struct {
			MttdMinutes float64 `json:"mttd_minutes"`
			OpenAlerts  int     `json:"open_alerts"`
			HasData     bool    `json:"has_data"`
		}
		if err := json.Unmarshal(env.Data, &body); err != nil {
			t.Fatalf("data is not a summary: %v", err)
		}
		if body.MttdMinutes != 14 {
			t.Errorf("mttd_minutes = %v, want 14", body.MttdMinutes)
		}
		if body.OpenAlerts != 3 {
			t.Errorf("open_alerts = %d, want 3", body.OpenAlerts)
		}
		if !body.HasData {
			t.Error("has_data should be true")
		}
	})
}

func TestKpiHandler_GetTrend(t *testing.T) {
	h := newKpiHandler(testutil.NewMockSnapshotRepository())

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"valid request", "metric=SMS&period=H24", http.StatusOK},
		{"unknown metric", "metric=LATENCY&period=H24", http.StatusBadRequest},
		{"missing metric", "period=H24", http.StatusBadRequest},
		{"unknown period", "metric=MTTD&period=M1", http.StatusBadRequest},
		{"missing period", "metric=MTTD", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.GetTrend(rec, httptest.NewRequest(http.MethodGet, "/api/v1/kpi/trend?"+tt.query, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env := decodeEnvelope(t, rec)
			if tt.wantStatus == http.StatusOK && !env.Success {
				t.Error("success should be true")
			}
			if tt.wantStatus != http.StatusOK {
				if env.Error == nil {
					t.Fatal("error detail missing")
				}
				if !strings.Contains(env.Error.Message, "must be") {
					t.Errorf("error message %q should name the accepted values", env.Error.Message)
				}
			}
		})
	}
}

func TestKpiHandler_GetIncidentsByCategory(t *testing.T) {
	h := newKpiHandler(testutil.NewMockSnapshotRepository())

	t.Run("period defaults to D7", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetIncidentsByCategory(rec, httptest.NewRequest(http.MethodGet, "/api/v1/kpi/incidents-by-category", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		env := decodeEnvelope(t, rec)
		var body struct {
			Period string `json:"period"`
		}
		if err := json.Unmarshal(env.Data, &body); err != nil {
			t.Fatalf("data is not an incidents payload: %v", err)
		}
		if body.Period != "D7" {
			t.Errorf("period = %s, want D7", body.Period)
		}
	})

	t.Run("unknown period is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetIncidentsByCategory(rec, httptest.NewRequest(http.MethodGet, "/api/v1/kpi/incidents-by-category?period=Y1", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
