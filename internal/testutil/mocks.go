package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/socpulse/maturity/internal/cache"
	"github.com/socpulse/maturity/internal/domain/kpi"
	"github.com/socpulse/maturity/internal/domain/recommendation"
)

// MockSnapshotRepository is an in-memory implementation of kpi.Repository
type MockSnapshotRepository struct {
	mu          sync.Mutex
	Snapshots   map[int64]*kpi.Snapshot
	Categories  map[int64]map[string]int
	NextID      int64
	UpsertError error
	GetError    error
}

func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{
		Snapshots:  make(map[int64]*kpi.Snapshot),
		Categories: make(map[int64]map[string]int),
		NextID:     1,
	}
}

func (m *MockSnapshotRepository) UpsertSnapshot(ctx context.Context, s *kpi.Snapshot) (int64, error) {
	if m.UpsertError != nil {
		return 0, m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.Snapshots {
		if existing.WindowFrom.Equal(s.WindowFrom) && existing.WindowTo.Equal(s.WindowTo) {
			s.ID = id
			m.Snapshots[id] = s
			return id, nil
		}
	}
	s.ID = m.NextID
	m.NextID++
	m.Snapshots[s.ID] = s
	return s.ID, nil
}

func (m *MockSnapshotRepository) ReplaceCategoryCounts(ctx context.Context, snapshotID int64, counts map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make(map[string]int, len(counts))
	for k, v := range counts {
		copied[k] = v
	}
	m.Categories[snapshotID] = copied
	return nil
}

func (m *MockSnapshotRepository) GetSnapshots(ctx context.Context, from, to time.Time) ([]*kpi.Snapshot, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*kpi.Snapshot
	for _, s := range m.Snapshots {
		if !s.WindowFrom.Before(from) && s.WindowFrom.Before(to) {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].WindowFrom.Before(result[j].WindowFrom)
	})
	return result, nil
}

func (m *MockSnapshotRepository) GetLatestSnapshot(ctx context.Context) (*kpi.Snapshot, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var latest *kpi.Snapshot
	for _, s := range m.Snapshots {
		if latest == nil || s.WindowFrom.After(latest.WindowFrom) {
			latest = s
		}
	}
	return latest, nil
}

func (m *MockSnapshotRepository) GetCategoryCounts(ctx context.Context, from, to time.Time) ([]*kpi.CategoryCount, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*kpi.CategoryCount
	for id, s := range m.Snapshots {
		if s.WindowFrom.Before(from) || !s.WindowFrom.Before(to) {
			continue
		}
		for category, count := range m.Categories[id] {
			result = append(result, &kpi.CategoryCount{SnapshotID: id, Category: category, Count: count})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SnapshotID != result[j].SnapshotID {
			return result[i].SnapshotID < result[j].SnapshotID
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

// MockRecommendationRepository is an in-memory implementation of recommendation.Repository
type MockRecommendationRepository struct {
	Recommendations map[int64]*recommendation.Recommendation
	Snapshots       []*recommendation.Snapshot
	NextID          int64
	CreateError     error
	GetError        error
}

func NewMockRecommendationRepository() *MockRecommendationRepository {
	return &MockRecommendationRepository{
		Recommendations: make(map[int64]*recommendation.Recommendation),
		NextID:          1,
	}
}

func (m *MockRecommendationRepository) CreateRecommendations(ctx context.Context, recs []*recommendation.Recommendation) ([]int64, error) {
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	ids := make([]int64, 0, len(recs))
	for _, rec := range recs {
		rec.ID = m.NextID
		m.NextID++
		m.Recommendations[rec.ID] = rec
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

func (m *MockRecommendationRepository) CreateSnapshot(ctx context.Context, snap *recommendation.Snapshot) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Snapshots = append(m.Snapshots, snap)
	return nil
}

func (m *MockRecommendationRepository) GetLatestSnapshot(ctx context.Context) (*recommendation.Snapshot, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	if len(m.Snapshots) == 0 {
		return nil, nil
	}
	return m.Snapshots[len(m.Snapshots)-1], nil
}

func (m *MockRecommendationRepository) GetRecommendationsByIDs(ctx context.Context, ids []int64) ([]*recommendation.Recommendation, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	result := make([]*recommendation.Recommendation, 0, len(ids))
	for _, id := range ids {
		if rec, ok := m.Recommendations[id]; ok {
			result = append(result, rec)
		}
	}
	return result, nil
}

// MockAlertSource is a configurable implementation of client.AlertSource
type MockAlertSource struct {
	Alerts     []kpi.AlertForKpi
	FetchError error
	Calls      []time.Time
}

func (m *MockAlertSource) FetchAlertsForWindow(ctx context.Context, from, to time.Time) ([]kpi.AlertForKpi, error) {
	m.Calls = append(m.Calls, from)
	if m.FetchError != nil {
		return nil, m.FetchError
	}
	return m.Alerts, nil
}

// MockGenerator is a configurable implementation of recommendation.Generator
type MockGenerator struct {
	Recommendations []*recommendation.Recommendation
	GenerateError   error
	LastContext     *recommendation.Context
}

func (m *MockGenerator) Generate(ctx context.Context, rc *recommendation.Context) ([]*recommendation.Recommendation, error) {
	m.LastContext = rc
	if m.GenerateError != nil {
		return nil, m.GenerateError
	}
	return m.Recommendations, nil
}

// MockQueryCache is an in-memory implementation of cache.QueryCache
type MockQueryCache struct {
	mu       sync.Mutex
	Entries  map[string][]byte
	GetError error
	SetError error
}

func NewMockQueryCache() *MockQueryCache {
	return &MockQueryCache{Entries: make(map[string][]byte)}
}

func (m *MockQueryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Entries[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return b, nil
}

func (m *MockQueryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]byte, len(value))
	copy(copied, value)
	m.Entries[key] = copied
	return nil
}

func (m *MockQueryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Entries, key)
	return nil
}

// MockContextBuilder is a configurable implementation of recommendation.ContextBuilder
type MockContextBuilder struct {
	Context    *recommendation.Context
	BuildError error
}

func (m *MockContextBuilder) BuildContext(ctx context.Context) (*recommendation.Context, error) {
	if m.BuildError != nil {
		return nil, m.BuildError
	}
	return m.Context, nil
}
