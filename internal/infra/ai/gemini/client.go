// Package gemini implements the Gemini-backed video analyzer. It is
// selectable as an alternative to the DeepSeek backend and follows the same
// contract: any failure degrades to the heuristic analyzer.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"video-analyzer-service/internal/domain"
	"video-analyzer-service/internal/infra/ai/deepseek"
)

// Config holds Gemini client settings.
type Config struct {
	APIKey string
	Model  string
}

// Client implements domain.Analyzer against the Gemini API.
type Client struct {
	model  *genai.GenerativeModel
	logger *zap.Logger
}

// New creates a Gemini analyzer. Without an API key, or if SDK
// initialization fails, the client stays in heuristic-only mode.
func New(ctx context.Context, cfg Config, logger *zap.Logger) *Client {
	if cfg.APIKey == "" {
		logger.Warn("gemini api key not configured, heuristic analysis only")
		return &Client{logger: logger}
	}

	sdk, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		logger.Warn("gemini client init failed, heuristic analysis only",
			zap.Error(err),
		)
		return &Client{logger: logger}
	}

	model := sdk.GenerativeModel(cfg.Model)
	model.GenerationConfig.ResponseMIMEType = "application/json"

	return &Client{model: model, logger: logger}
}

// Analyze evaluates a video record via Gemini. The prompt and expected JSON
// shape are shared with the DeepSeek backend.
func (c *Client) Analyze(ctx context.Context, rec *domain.VideoRecord) *domain.AnalysisResult {
	if c.model == nil {
		return domain.HeuristicAnalysis(rec)
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(deepseek.BuildPrompt(rec)))
	if err != nil {
		c.logger.Warn("gemini call failed, using heuristic analysis",
			zap.Error(err),
		)
		return domain.HeuristicAnalysis(rec)
	}

	content, err := responseText(resp)
	if err != nil {
		c.logger.Warn("gemini response unusable, using heuristic analysis",
			zap.Error(err),
		)
		return domain.HeuristicAnalysis(rec)
	}

	result, err := deepseek.ParseResult(content)
	if err != nil {
		c.logger.Warn("gemini response not parseable, using heuristic analysis",
			zap.Error(err),
		)
		return domain.HeuristicAnalysis(rec)
	}

	c.logger.Info("gemini analysis completed",
		zap.Int("score", result.Score),
		zap.String("platform", string(rec.Platform)),
	)

	return result
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content parts, finish reason %s", candidate.FinishReason)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", fmt.Errorf("response text empty")
	}
	if !json.Valid([]byte(deepseek.StripFences(content))) {
		return "", fmt.Errorf("response is not valid json")
	}

	return content, nil
}
