package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/socpulse/maturity/internal/domain/recommendation"
	"github.com/socpulse/maturity/internal/pkg/logger"
	"github.com/socpulse/maturity/internal/pkg/validator"
)

// RecommendationService implements recommendation.Service
type RecommendationService struct {
	repo      recommendation.Repository
	builder   recommendation.ContextBuilder
	generator recommendation.Generator
	validator *validator.Validator
	logger    *logger.Logger
	now       func() time.Time
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(
	repo recommendation.Repository,
	builder recommendation.ContextBuilder,
	generator recommendation.Generator,
	val *validator.Validator,
	log *logger.Logger,
) recommendation.Service {
	return &RecommendationService{
		repo:      repo,
		builder:   builder,
		generator: generator,
		validator: val,
		logger:    log,
		now:       time.Now,
	}
}

// Latest serves the recommendation set named by the newest snapshot pointer
func (s *RecommendationService) Latest(ctx context.Context) ([]*recommendation.Recommendation, error) {
	snap, err := s.repo.GetLatestSnapshot(ctx)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to load recommendation snapshot")
		return nil, err
	}
	if snap == nil || len(snap.RecommendationIDs) == 0 {
		return []*recommendation.Recommendation{}, nil
	}
	return s.repo.GetRecommendationsByIDs(ctx, snap.RecommendationIDs)
}

// Generate builds the context, invokes the recommender, stores accepted
// results, and advances the snapshot pointer.
func (s *RecommendationService) Generate(ctx context.Context) ([]*recommendation.Recommendation, error) {
	if s.generator == nil {
		s.logger.Warn("Recommendation generator is not configured")
		return nil, fmt.Errorf("recommendation generator is not available")
	}

	rc, err := s.builder.BuildContext(ctx)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to build recommendation context")
		return nil, err
	}

	candidates, err := s.generator.Generate(ctx, rc)
	if err != nil {
		s.logger.ErrorWithErr(err, "Recommender invocation failed")
		return nil, fmt.Errorf("failed to generate recommendations: %w", err)
	}

	// Each candidate is validated on its own; a bad element is dropped,
	// the rest of the batch is kept. An empty result is valid.
	accepted := make([]*recommendation.Recommendation, 0, len(candidates))
	for _, cand := range candidates {
		if cand == nil {
			continue
		}
		if verrs := s.validator.Validate(cand); len(verrs) > 0 {
			s.logger.WithFields(map[string]interface{}{
				"title":  cand.Title,
				"errors": verrs,
			}).Warn("Dropping recommendation that failed validation")
			continue
		}
		accepted = append(accepted, cand)
	}

	ids, err := s.repo.CreateRecommendations(ctx, accepted)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to store recommendations")
		return nil, err
	}

	snap := &recommendation.Snapshot{
		ID:                uuid.New().String(),
		GeneratedAtUTC:    s.now().UTC(),
		RecommendationIDs: ids,
	}
	if err := s.repo.CreateSnapshot(ctx, snap); err != nil {
		s.logger.ErrorWithErr(err, "Failed to store recommendation snapshot")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"snapshot_id": snap.ID,
		"generated":   len(candidates),
		"accepted":    len(accepted),
	}).Info("Recommendations generated")

	return accepted, nil
}
