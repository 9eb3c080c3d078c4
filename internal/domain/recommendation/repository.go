package recommendation

import "context"

// Repository defines the interface for recommendation data access
type Repository interface {
	// CreateRecommendations stores accepted recommendations and returns
	// their assigned ids, in input order.
	CreateRecommendations(ctx context.Context, recs []*Recommendation) ([]int64, error)

	// CreateSnapshot appends a new pointer record.
	CreateSnapshot(ctx context.Context, snap *Snapshot) error

	// GetLatestSnapshot returns the most recently generated pointer record,
	// or nil if none exist.
	GetLatestSnapshot(ctx context.Context) (*Snapshot, error)

	// GetRecommendationsByIDs loads recommendation rows by id, preserving
	// the requested order for ids that exist.
	GetRecommendationsByIDs(ctx context.Context, ids []int64) ([]*Recommendation, error)
}
