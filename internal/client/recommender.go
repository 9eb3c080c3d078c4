package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/socpulse/maturity/internal/config"
	"github.com/socpulse/maturity/internal/domain/recommendation"
	"github.com/socpulse/maturity/internal/pkg/logger"
)

// RecommenderClient calls the external recommender service over HTTP.
// It implements recommendation.Generator.
type RecommenderClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewRecommenderClient creates a new HTTP recommender client
func NewRecommenderClient(cfg config.RecommenderConfig, log *logger.Logger) *RecommenderClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &RecommenderClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// Generate posts the assembled context and returns the recommender's
// candidates. Schema validation of individual elements is the caller's
// concern; this client only enforces the envelope.
func (c *RecommenderClient) Generate(ctx context.Context, rc *recommendation.Context) ([]*recommendation.Recommendation, error) {
	body, err := json.Marshal(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recommendation context: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recommendations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommender request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("recommender returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var recs []*recommendation.Recommendation
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		return nil, fmt.Errorf("failed to parse recommender response: %w", err)
	}

	// An empty array is a valid response, not an error.
	return recs, nil
}
