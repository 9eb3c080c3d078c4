package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/socpulse/maturity/internal/cache"
	"github.com/socpulse/maturity/internal/domain/kpi"
	"github.com/socpulse/maturity/internal/domain/recommendation"
	"github.com/socpulse/maturity/internal/pkg/logger"
)

// TrendService implements kpi.Service and recommendation.ContextBuilder.
// It is the read side over stored snapshots; it never mutates state.
type TrendService struct {
	repo       kpi.Repository
	aggregator kpi.Aggregator
	cache      cache.QueryCache
	cacheTTL   time.Duration
	logger     *logger.Logger
	now        func() time.Time
}

// NewTrendService creates a new trend service
func NewTrendService(repo kpi.Repository, agg kpi.Aggregator, qc cache.QueryCache, cacheTTL time.Duration, log *logger.Logger) *TrendService {
	return &TrendService{
		repo:       repo,
		aggregator: agg,
		cache:      qc,
		cacheTTL:   cacheTTL,
		logger:     log,
		now:        time.Now,
	}
}

// GetCurrent returns the latest available snapshot as a flat summary
func (s *TrendService) GetCurrent(ctx context.Context) (*kpi.Summary, error) {
	var cached kpi.Summary
	if s.fromCache(ctx, "kpi:current", &cached) {
		return &cached, nil
	}

	snap, err := s.repo.GetLatestSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return &kpi.Summary{MaturityLevel: kpi.LevelUnknown}, nil
	}

	summary := &kpi.Summary{
		WindowFrom:     snap.WindowFrom,
		WindowTo:       snap.WindowTo,
		MttdMinutes:    snap.MttdMinutes,
		MttrMinutes:    snap.MttrMinutes,
		TotalAlerts:    snap.TotalAlerts,
		ResolvedAlerts: snap.ResolvedAlerts,
		OpenAlerts:     snap.OpenAlerts(),
		FalseAlarms:    snap.FalseAlarms,
		FalseAlarmRate: snap.FalseAlarmRate,
		ScoreValue:     snap.ScoreValue,
		MaturityLevel:  snap.MaturityLevel,
		HasData:        true,
	}

	s.toCache(ctx, "kpi:current", summary)
	return summary, nil
}

// GetTrend returns the metric's time-series over the period
func (s *TrendService) GetTrend(ctx context.Context, metric kpi.Metric, period kpi.Period) ([]kpi.TrendPoint, error) {
	key := fmt.Sprintf("kpi:trend:%s:%s", metric, period)
	var cached []kpi.TrendPoint
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	to := s.now().UTC()
	from := to.Add(-period.Duration())
	snapshots, err := s.repo.GetSnapshots(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var points []kpi.TrendPoint
	if period == kpi.PeriodH24 {
		// Stored hourly snapshots are served verbatim, one point each.
		points = make([]kpi.TrendPoint, 0, len(snapshots))
		for _, snap := range snapshots {
			points = append(points, kpi.TrendPoint{
				Timestamp: snap.WindowFrom,
				Value:     s.aggregator.ResolveMetricValue(snap, metric),
			})
		}
	} else {
		points = s.dailyPoints(snapshots, metric)
	}

	s.toCache(ctx, key, points)
	return points, nil
}

// dailyPoints groups snapshots by UTC calendar day and weight-averages each
// group, yielding at most one point per day even when hours are missing.
func (s *TrendService) dailyPoints(snapshots []*kpi.Snapshot, metric kpi.Metric) []kpi.TrendPoint {
	byDay := make(map[time.Time][]*kpi.Snapshot)
	for _, snap := range snapshots {
		day := snap.WindowFrom.UTC().Truncate(24 * time.Hour)
		byDay[day] = append(byDay[day], snap)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	points := make([]kpi.TrendPoint, 0, len(days))
	for _, day := range days {
		points = append(points, kpi.TrendPoint{
			Timestamp: day,
			Value:     s.aggregator.WeightedAverageMetric(byDay[day], metric),
		})
	}
	return points
}

// GetIncidentsByCategory sums category counts over the period
func (s *TrendService) GetIncidentsByCategory(ctx context.Context, period kpi.Period) ([]kpi.CategorySum, error) {
	key := fmt.Sprintf("kpi:incidents:%s", period)
	var cached []kpi.CategorySum
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	to := s.now().UTC()
	from := to.Add(-period.Duration())
	counts, err := s.repo.GetCategoryCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	for _, c := range counts {
		totals[c.Category] += c.Count
	}

	sums := make([]kpi.CategorySum, 0, len(totals))
	for category, count := range totals {
		sums = append(sums, kpi.CategorySum{Category: category, Count: count})
	}
	sort.Slice(sums, func(i, j int) bool {
		if sums[i].Count != sums[j].Count {
			return sums[i].Count > sums[j].Count
		}
		return sums[i].Category < sums[j].Category
	})

	s.toCache(ctx, key, sums)
	return sums, nil
}

// BuildContext assembles the recommendation context from the stored state
func (s *TrendService) BuildContext(ctx context.Context) (*recommendation.Context, error) {
	to := s.now().UTC()
	from := to.Add(-kpi.PeriodD7.Duration())

	latest, err := s.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.repo.GetSnapshots(ctx, from, to)
	if err != nil {
		return nil, err
	}

	avg7d := make(map[string]float64, 4)
	for _, metric := range []kpi.Metric{kpi.MetricMTTD, kpi.MetricMTTR, kpi.MetricFalseAlarmRate, kpi.MetricSMS} {
		avg7d[string(metric)] = s.aggregator.WeightedAverageMetric(snapshots, metric).ToStored()
	}

	// The series handed to the recommender is the daily composite score.
	series := s.dailyPoints(snapshots, kpi.MetricSMS)

	incidents, err := s.GetIncidentsByCategory(ctx, kpi.PeriodD7)
	if err != nil {
		return nil, err
	}

	return &recommendation.Context{
		WindowFrom:            from,
		WindowTo:              to,
		Latest:                latest,
		Avg7d:                 avg7d,
		Series:                series,
		IncidentsByCategory7d: incidents,
	}, nil
}

// fromCache loads a cached value; any cache failure is treated as a miss.
func (s *TrendService) fromCache(ctx context.Context, key string, out interface{}) bool {
	b, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != cache.ErrMiss {
			s.logger.WithFields(map[string]interface{}{"key": key}).WithError(err).Warn("Query cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		s.logger.WithFields(map[string]interface{}{"key": key}).WithError(err).Warn("Query cache entry unreadable")
		return false
	}
	return true
}

func (s *TrendService) toCache(ctx context.Context, key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b, s.cacheTTL); err != nil {
		s.logger.WithFields(map[string]interface{}{"key": key}).WithError(err).Warn("Query cache write failed")
	}
}
