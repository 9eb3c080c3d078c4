package dto

import (
	"time"

	"github.com/socpulse/maturity/internal/domain/recommendation"
)

// RecommendationDTO is the wire shape of one stored recommendation
type RecommendationDTO struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Rationale        string    `json:"rationale"`
	Priority         string    `json:"priority"`
	Effort           string    `json:"effort"`
	Category         string    `json:"category"`
	RelatedMetrics   []string  `json:"related_metrics"`
	SuggestedActions []string  `json:"suggested_actions"`
	CreatedAt        time.Time `json:"created_at"`
}

// RecommendationFromDomain maps a domain recommendation to its DTO
func RecommendationFromDomain(r *recommendation.Recommendation) RecommendationDTO {
	return RecommendationDTO{
		ID:               r.ID,
		Title:            r.Title,
		Rationale:        r.Rationale,
		Priority:         r.Priority,
		Effort:           r.Effort,
		Category:         r.Category,
		RelatedMetrics:   r.RelatedMetrics,
		SuggestedActions: r.SuggestedActions,
		CreatedAt:        r.CreatedAt,
	}
}

// RecommendationsFromDomain maps a slice of domain recommendations
func RecommendationsFromDomain(recs []*recommendation.Recommendation) []RecommendationDTO {
	dtos := make([]RecommendationDTO, len(recs))
	for i, r := range recs {
		dtos[i] = RecommendationFromDomain(r)
	}
	return dtos
}
