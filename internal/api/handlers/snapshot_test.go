package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/socpulse/maturity/internal/api/handlers"
	"github.com/socpulse/maturity/internal/pkg/validator"
	"github.com/socpulse/maturity/internal/services"
	"github.com/socpulse/maturity/internal/testutil"
	"github.com/socpulse/maturity/internal/worker"
)

func newSnapshotHandler(repo *testutil.MockSnapshotRepository) *handlers.SnapshotHandler {
	log := testLogger()
	job := worker.NewSnapshotJob(&testutil.MockAlertSource{}, services.NewKpiCalculator(log), repo, log)
	return handlers.NewSnapshotHandler(job, log, validator.New())
}

func TestSnapshotHandler_Run(t *testing.T) {
	h := newSnapshotHandler(testutil.NewMockSnapshotRepository())

	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/api/v1/snapshots/run", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Error("success should be true")
	}
}

func TestSnapshotHandler_Backfill(t *testing.T) {
	t.Run("processes the range", func(t *testing.T) {
		repo := testutil.NewMockSnapshotRepository()
		h := newSnapshotHandler(repo)

		body := `{"from": "2025-06-08T06:00:00Z", "to": "2025-06-08T09:00:00Z"}`
		rec := httptest.NewRecorder()
		h.Backfill(rec, httptest.NewRequest(http.MethodPost, "/api/v1/snapshots/backfill", bytes.NewBufferString(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)
		var resp struct {
			WindowsProcessed int `json:"windows_processed"`
		}
		if err := json.Unmarshal(env.Data, &resp); err != nil {
			t.Fatalf("data is not a backfill response: %v", err)
		}
		if resp.WindowsProcessed != 3 {
			t.Errorf("windows_processed = %d, want 3", resp.WindowsProcessed)
		}
		if len(repo.Snapshots) != 3 {
			t.Errorf("stored %d snapshots, want 3", len(repo.Snapshots))
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing fields", `{"from": "2025-06-08T06:00:00Z"}`},
		{"from after to", `{"from": "2025-06-08T09:00:00Z", "to": "2025-06-08T06:00:00Z"}`},
		{"from equals to", `{"from": "2025-06-08T06:00:00Z", "to": "2025-06-08T06:00:00Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockSnapshotRepository()
			h := newSnapshotHandler(repo)

			rec := httptest.NewRecorder()
			h.Backfill(rec, httptest.NewRequest(http.MethodPost, "/api/v1/snapshots/backfill", bytes.NewBufferString(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if len(repo.Snapshots) != 0 {
				t.Error("rejected requests must not persist snapshots")
			}
		})
	}
}
