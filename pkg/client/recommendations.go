package client

import "context"

// RecommendationService handles recommendation API calls
type RecommendationService struct {
	client *Client
}

// List retrieves the latest generated recommendation set
func (s *RecommendationService) List(ctx context.Context) ([]Recommendation, error) {
	var recommendations []Recommendation
	if err := s.client.doRequest(ctx, "GET", "/api/v1/recommendations/", nil, &recommendations); err != nil {
		return nil, err
	}
	return recommendations, nil
}

// Generate invokes the recommender against the current KPI state and
// returns the newly stored set
func (s *RecommendationService) Generate(ctx context.Context) ([]Recommendation, error) {
	var recommendations []Recommendation
	if err := s.client.doRequest(ctx, "POST", "/api/v1/recommendations/generate", nil, &recommendations); err != nil {
		return nil, err
	}
	return recommendations, nil
}
