package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/socpulse/maturity/internal/config"
	"github.com/socpulse/maturity/internal/domain/recommendation"
	"github.com/socpulse/maturity/internal/pkg/logger"
)

const recommenderPrompt = `You are a SOC maturity advisor. Given the JSON KPI context below,
produce a JSON array of improvement recommendations. Each element must have:
"title", "rationale", "priority" (critical|high|medium|low),
"effort" (low|medium|high), "category", "related_metrics" (array of
MTTD|MTTR|FALSE_ALARM_RATE|SMS), "suggested_actions" (non-empty array).
Respond with the JSON array only.

Context:
%s`

// OpenAIRecommender generates recommendations with the OpenAI chat API
// instead of a dedicated recommender service. It implements
// recommendation.Generator.
type OpenAIRecommender struct {
	client *openai.Client
	model  string
	logger *logger.Logger
}

// NewOpenAIRecommender creates a new OpenAI-backed recommender
func NewOpenAIRecommender(cfg config.RecommenderConfig, log *logger.Logger) (*OpenAIRecommender, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}
	model := cfg.OpenAIModel
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIRecommender{
		client: openai.NewClient(cfg.OpenAIAPIKey),
		model:  model,
		logger: log,
	}, nil
}

// Generate prompts the model with the context and parses its JSON reply
func (c *OpenAIRecommender) Generate(ctx context.Context, rc *recommendation.Context) ([]*recommendation.Recommendation, error) {
	contextJSON, err := json.Marshal(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recommendation context: %w", err)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(recommenderPrompt, string(contextJSON)),
		}},
		MaxTokens: 1500,
	})
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var recs []*recommendation.Recommendation
	if err := json.Unmarshal([]byte(content), &recs); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"content_prefix": truncate(content, 200),
		}).Warn("OpenAI reply was not a parseable recommendation array")
		return nil, fmt.Errorf("failed to parse openai response: %w", err)
	}

	return recs, nil
}

// stripCodeFence removes a markdown code fence the model sometimes wraps
// around its JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
