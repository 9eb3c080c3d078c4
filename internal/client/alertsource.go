package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/socpulse/maturity/internal/config"
	"github.com/socpulse/maturity/internal/domain/kpi"
	"github.com/socpulse/maturity/internal/pkg/logger"
	"github.com/socpulse/maturity/internal/pkg/metrics"
)

// AlertSource fetches per-alert KPI fields for a time window from the
// external alert store.
type AlertSource interface {
	FetchAlertsForWindow(ctx context.Context, from, to time.Time) ([]kpi.AlertForKpi, error)
}

// alertRecord is the wire shape of one alert-store record.
type alertRecord struct {
	ID                      string     `json:"id"`
	CreatedAt               *time.Time `json:"createdAt"`
	ResolvedAt              *time.Time `json:"resolvedAt,omitempty"`
	OldestCorrelatedEventAt *time.Time `json:"oldestCorrelatedEventAt"`
	Category                string     `json:"category"`
	IsFalseAlarm            bool       `json:"isFalseAlarm"`
}

// AlertSourceClient is the HTTP implementation of AlertSource
type AlertSourceClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewAlertSourceClient creates a new alert source client
func NewAlertSourceClient(cfg config.AlertSourceConfig, log *logger.Logger) *AlertSourceClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &AlertSourceClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// FetchAlertsForWindow fetches the window's alerts. Records failing
// contract validation are returned with IsValid cleared so they still
// count as received but stay out of all KPI math.
func (c *AlertSourceClient) FetchAlertsForWindow(ctx context.Context, from, to time.Time) ([]kpi.AlertForKpi, error) {
	query := url.Values{}
	query.Set("from", from.UTC().Format(time.RFC3339))
	query.Set("to", to.UTC().Format(time.RFC3339))

	reqURL := c.baseURL + "/alerts/for-kpi?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAlertFetch("error")
		return nil, fmt.Errorf("alert source request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordAlertFetch("error")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("alert source returned status %d: %s", resp.StatusCode, string(body))
	}

	var records []alertRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		metrics.RecordAlertFetch("error")
		return nil, fmt.Errorf("failed to parse alert source response: %w", err)
	}

	alerts := make([]kpi.AlertForKpi, 0, len(records))
	for _, rec := range records {
		alerts = append(alerts, c.toAlert(rec))
	}

	metrics.RecordAlertFetch("success")
	return alerts, nil
}

// toAlert validates one record and maps it to the domain shape.
func (c *AlertSourceClient) toAlert(rec alertRecord) kpi.AlertForKpi {
	if reason := validateRecord(rec); reason != "" {
		metrics.RecordAlertRecordDropped()
		c.logger.WithFields(map[string]interface{}{
			"alert_id": rec.ID,
			"reason":   reason,
		}).Warn("Alert record failed contract validation, excluded from KPI math")
		return kpi.AlertForKpi{ID: rec.ID, IsValid: false}
	}

	return kpi.AlertForKpi{
		ID:                      rec.ID,
		CreatedAt:               rec.CreatedAt.UTC(),
		ResolvedAt:              normalizeOptional(rec.ResolvedAt),
		OldestCorrelatedEventAt: rec.OldestCorrelatedEventAt.UTC(),
		Category:                kpi.NormalizeCategory(rec.Category),
		IsFalseAlarm:            rec.IsFalseAlarm,
		IsValid:                 true,
	}
}

func validateRecord(rec alertRecord) string {
	if rec.ID == "" {
		return "missing id"
	}
	if rec.CreatedAt == nil || rec.CreatedAt.IsZero() {
		return "missing createdAt"
	}
	if rec.OldestCorrelatedEventAt == nil || rec.OldestCorrelatedEventAt.IsZero() {
		return "missing oldestCorrelatedEventAt"
	}
	if rec.ResolvedAt != nil && rec.ResolvedAt.IsZero() {
		return "invalid resolvedAt"
	}
	return ""
}

func normalizeOptional(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
