package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/socpulse/maturity/internal/cache"
	"github.com/socpulse/maturity/internal/domain/kpi"
	"github.com/socpulse/maturity/internal/testutil"
)

func newTestTrendService(repo kpi.Repository, now time.Time) *TrendService {
	s := NewTrendService(repo, NewAggregationService(), cache.Disabled{}, 0, testLogger())
	s.now = func() time.Time { return now }
	return s
}

func hourlySnapshot(from time.Time, score float64, total int) *kpi.Snapshot {
	return &kpi.Snapshot{
		WindowFrom:      from,
		WindowTo:        from.Add(time.Hour),
		MttdMinutes:     kpi.Value(10),
		MttrMinutes:     kpi.Value(30),
		MttdSampleCount: total,
		MttrSampleCount: total,
		TotalAlerts:     total,
		ResolvedAlerts:  total,
		FalseAlarmRate:  kpi.Value(0),
		ScoreValue:      kpi.Value(score),
		MaturityLevel:   kpi.MapScoreToLevel(kpi.Value(score)),
	}
}

func TestTrendService_GetCurrent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 8, 12, 30, 0, 0, time.UTC)

	t.Run("no snapshots", func(t *testing.T) {
		svc := newTestTrendService(testutil.NewMockSnapshotRepository(), now)

		summary, err := svc.GetCurrent(ctx)
		if err != nil {
			t.Fatalf("GetCurrent() error = %v", err)
		}
		if summary.HasData {
			t.Error("HasData should be false with an empty store")
		}
		if summary.MaturityLevel != kpi.LevelUnknown {
			t.Errorf("MaturityLevel = %s, want UNKNOWN", summary.MaturityLevel)
		}
	})

	t.Run("latest snapshot wins", func(t *testing.T) {
		repo := testutil.NewMockSnapshotRepository()
		svc := newTestTrendService(repo, now)

		older := hourlySnapshot(now.Add(-3*time.Hour).Truncate(time.Hour), 40, 5)
		newer := hourlySnapshot(now.Add(-1*time.Hour).Truncate(time.Hour), 70, 12)
		newer.ResolvedAlerts = 9
		repo.UpsertSnapshot(ctx, older)
		repo.UpsertSnapshot(ctx, newer)

		summary, err := svc.GetCurrent(ctx)
		if err != nil {
			t.Fatalf("GetCurrent() error = %v", err)
		}
		if !summary.HasData {
			t.Error("HasData should be true")
		}
		if summary.ScoreValue != kpi.Value(70) {
			t.Errorf("ScoreValue = %+v, want 70", summary.ScoreValue)
		}
		if summary.OpenAlerts != 3 {
			t.Errorf("OpenAlerts = %d, want 3", summary.OpenAlerts)
		}
	})
}

func TestTrendService_GetTrend(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)

	t.Run("h24 serves hourly points verbatim", func(t *testing.T) {
		repo := testutil.NewMockSnapshotRepository()
		svc := newTestTrendService(repo, now)

		for i := 1; i <= 3; i++ {
			repo.UpsertSnapshot(ctx, hourlySnapshot(now.Add(-time.Duration(i)*time.Hour), float64(50+i), 5))
		}
		// Out of range, must not appear.
		repo.UpsertSnapshot(ctx, hourlySnapshot(now.Add(-30*time.Hour), 10, 5))

		points, err := svc.GetTrend(ctx, kpi.MetricSMS, kpi.PeriodH24)
		if err != nil {
			t.Fatalf("GetTrend() error = %v", err)
		}
		if len(points) != 3 {
			t.Fatalf("got %d points, want 3", len(points))
		}
		for i := 1; i < len(points); i++ {
			if !points[i-1].Timestamp.Before(points[i].Timestamp) {
				t.Error("points must be in ascending timestamp order")
			}
		}
	})

	t.Run("d7 groups by calendar day", func(t *testing.T) {
		repo := testutil.NewMockSnapshotRepository()
		svc := newTestTrendService(repo, now)

		day1 := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
		day2 := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
		repo.UpsertSnapshot(ctx, hourlySnapshot(day1.Add(9*time.Hour), 40, 10))
		repo.UpsertSnapshot(ctx, hourlySnapshot(day1.Add(15*time.Hour), 60, 10))
		repo.UpsertSnapshot(ctx, hourlySnapshot(day2.Add(11*time.Hour), 80, 10))

		points, err := svc.GetTrend(ctx, kpi.MetricSMS, kpi.PeriodD7)
		if err != nil {
			t.Fatalf("GetTrend() error = %v", err)
		}
		if len(points) != 2 {
			t.Fatalf("got %d points, want 2 (one per day)", len(points))
		}
		if !points[0].Timestamp.Equal(day1) || !points[1].Timestamp.Equal(day2) {
			t.Errorf("timestamps = %v, %v; want day boundaries", points[0].Timestamp, points[1].Timestamp)
		}
		// Equal weights, so day one averages to 50.
		if points[0].Value != kpi.Value(50) {
			t.Errorf("day one value = %+v, want 50", points[0].Value)
		}
	})
}

func TestTrendService_GetIncidentsByCategory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	repo := testutil.NewMockSnapshotRepository()
	svc := newTestTrendService(repo, now)

	snap := hourlySnapshot(now.Add(-2*time.Hour), 50, 10)
	id, _ := repo.UpsertSnapshot(ctx, snap)
	repo.ReplaceCategoryCounts(ctx, id, map[string]int{
		kpi.CategoryPhishing:  3,
		kpi.CategoryMalware:   7,
		kpi.CategoryIntrusion: 3,
	})

	sums, err := svc.GetIncidentsByCategory(ctx, kpi.PeriodD7)
	if err != nil {
		t.Fatalf("GetIncidentsByCategory() error = %v", err)
	}
	if len(sums) != 3 {
		t.Fatalf("got %d categories, want 3", len(sums))
	}
	if sums[0].Category != kpi.CategoryMalware {
		t.Errorf("first category = %s, want MALWARE (highest count)", sums[0].Category)
	}
	// Ties break alphabetically.
	if sums[1].Category != kpi.CategoryIntrusion || sums[2].Category != kpi.CategoryPhishing {
		t.Errorf("tie order = %s, %s; want INTRUSION then PHISHING", sums[1].Category, sums[2].Category)
	}
}

func TestTrendService_QueryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)

	newCachedService := func(qc cache.QueryCache) (*TrendService, *testutil.MockSnapshotRepository) {
		repo := testutil.NewMockSnapshotRepository()
		repo.UpsertSnapshot(ctx, hourlySnapshot(now.Add(-1*time.Hour), 70, 12))
		s := NewTrendService(repo, NewAggregationService(), qc, time.Minute, testLogger())
		s.now = func() time.Time { return now }
		return s, repo
	}

	t.Run("second read is served from cache", func(t *testing.T) {
		qc := testutil.NewMockQueryCache()
		svc, repo := newCachedService(qc)

		first, err := svc.GetCurrent(ctx)
		if err != nil {
			t.Fatalf("GetCurrent() error = %v", err)
		}

		// With the repository failing, only a cache hit can answer.
		repo.GetError = errors.New("store offline")
		second, err := svc.GetCurrent(ctx)
		if err != nil {
			t.Fatalf("GetCurrent() from cache error = %v", err)
		}
		if second.ScoreValue != first.ScoreValue || second.HasData != first.HasData {
			t.Errorf("cached summary = %+v, want the direct read %+v", second, first)
		}
		if !second.WindowFrom.Equal(first.WindowFrom) {
			t.Errorf("cached WindowFrom = %v, want %v", second.WindowFrom, first.WindowFrom)
		}
	})

	t.Run("trend points survive the cache round trip", func(t *testing.T) {
		qc := testutil.NewMockQueryCache()
		svc, repo := newCachedService(qc)

		first, err := svc.GetTrend(ctx, kpi.MetricSMS, kpi.PeriodH24)
		if err != nil {
			t.Fatalf("GetTrend() error = %v", err)
		}

		repo.GetError = errors.New("store offline")
		second, err := svc.GetTrend(ctx, kpi.MetricSMS, kpi.PeriodH24)
		if err != nil {
			t.Fatalf("GetTrend() from cache error = %v", err)
		}
		if len(second) != len(first) {
			t.Fatalf("cached points = %d, want %d", len(second), len(first))
		}
		for i := range first {
			if second[i].Value != first[i].Value || !second[i].Timestamp.Equal(first[i].Timestamp) {
				t.Errorf("point %d = %+v, want %+v", i, second[i], first[i])
			}
		}
	})

	t.Run("get error degrades to a direct read", func(t *testing.T) {
		qc := testutil.NewMockQueryCache()
		qc.GetError = errors.New("redis down")
		svc, _ := newCachedService(qc)

		summary, err := svc.GetCurrent(ctx)
		if err != nil {
			t.Fatalf("GetCurrent() error = %v", err)
		}
		if summary.ScoreValue != kpi.Value(70) {
			t.Errorf("ScoreValue = %+v, want the repository value 70", summary.ScoreValue)
		}
	})

	t.Run("set error is not surfaced", func(t *testing.T) {
		qc := testutil.NewMockQueryCache()
		qc.SetError = errors.New("redis down")
		svc, _ := newCachedService(qc)

		summary, err := svc.GetCurrent(ctx)
		if err != nil {
			t.Fatalf("GetCurrent() error = %v", err)
		}
		if !summary.HasData {
			t.Error("write failure must not affect the response")
		}
	})

	t.Run("unreadable entry falls through to the repository", func(t *testing.T) {
		qc := testutil.NewMockQueryCache()
		qc.Entries["kpi:current"] = []byte("{corrupt")
		svc, _ := newCachedService(qc)

		summary, err := svc.GetCurrent(ctx)
		if err != nil {
			t.Fatalf("GetCurrent() error = %v", err)
		}
		if summary.ScoreValue != kpi.Value(70) {
			t.Errorf("ScoreValue = %+v, want the repository value 70", summary.ScoreValue)
		}
	})

	t.Run("disabled cache matches the direct read", func(t *testing.T) {
		cached, _ := newCachedService(testutil.NewMockQueryCache())
		direct, _ := newCachedService(cache.Disabled{})

		got, err := cached.GetCurrent(ctx)
		if err != nil {
			t.Fatalf("GetCurrent() with cache error = %v", err)
		}
		want, err := direct.GetCurrent(ctx)
		if err != nil {
			t.Fatalf("GetCurrent() without cache error = %v", err)
		}
		if got.ScoreValue != want.ScoreValue || got.TotalAlerts != want.TotalAlerts || got.HasData != want.HasData {
			t.Errorf("cached body %+v differs from direct body %+v", got, want)
		}
	})
}

func TestTrendService_BuildContext(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	repo := testutil.NewMockSnapshotRepository()
	svc := newTestTrendService(repo, now)

	repo.UpsertSnapshot(ctx, hourlySnapshot(now.Add(-5*time.Hour), 60, 10))

	rc, err := svc.BuildContext(ctx)
	if err != nil {
		t.Fatalf("BuildContext() error = %v", err)
	}

	if got := rc.WindowTo.Sub(rc.WindowFrom); got != 7*24*time.Hour {
		t.Errorf("context window = %v, want 7 days", got)
	}
	if rc.Latest == nil || !rc.Latest.HasData {
		t.Error("Latest should carry the stored snapshot")
	}
	for _, metric := range []string{"MTTD", "MTTR", "FALSE_ALARM_RATE", "SMS"} {
		if _, ok := rc.Avg7d[metric]; !ok {
			t.Errorf("Avg7d missing %s", metric)
		}
	}
	if len(rc.Series) != 1 {
		t.Errorf("Series has %d points, want 1", len(rc.Series))
	}
}
