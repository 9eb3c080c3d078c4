package recommendation

import "context"

// Generator produces recommendation candidates from a context. The HTTP
// recommender service and the OpenAI-backed generator both satisfy it.
type Generator interface {
	Generate(ctx context.Context, rc *Context) ([]*Recommendation, error)
}

// ContextBuilder assembles the KPI state handed to the recommender.
// Building a context is a pure read composition with no side effects.
type ContextBuilder interface {
	BuildContext(ctx context.Context) (*Context, error)
}

// Service defines the interface for recommendation business logic
type Service interface {
	// Latest serves the recommendation set named by the newest snapshot
	// pointer without invoking the recommender. Returns an empty list when
	// nothing has been generated yet.
	Latest(ctx context.Context) ([]*Recommendation, error)

	// Generate builds the current recommendation context, invokes the
	// configured recommender, validates and stores the accepted results,
	// and advances the snapshot pointer.
	Generate(ctx context.Context) ([]*Recommendation, error)
}
