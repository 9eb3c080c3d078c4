package client

import (
	"context"
	"net/url"
)

// KpiService handles KPI query API calls
type KpiService struct {
	client *Client
}

// Current retrieves the latest KPI snapshot summary
func (s *KpiService) Current(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := s.client.doRequest(ctx, "GET", "/api/v1/kpi/current", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Trend retrieves a metric's time-series. Metric is one of MTTD, MTTR,
// FALSE_ALARM_RATE, SMS; period is H24 or D7.
func (s *KpiService) Trend(ctx context.Context, metric, period string) (*Trend, error) {
	query := url.Values{}
	query.Set("metric", metric)
	query.Set("period", period)

	var trend Trend
	if err := s.client.doRequest(ctx, "GET", "/api/v1/kpi/trend?"+query.Encode(), nil, &trend); err != nil {
		return nil, err
	}
	return &trend, nil
}

// IncidentsByCategory retrieves per-category incident counts over a period
func (s *KpiService) IncidentsByCategory(ctx context.Context, period string) (*IncidentsByCategory, error) {
	query := url.Values{}
	if period != "" {
		query.Set("period", period)
	}

	path := "/api/v1/kpi/incidents-by-category"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var incidents IncidentsByCategory
	if err := s.client.doRequest(ctx, "GET", path, nil, &incidents); err != nil {
		return nil, err
	}
	return &incidents, nil
}
