// Package deepseek implements the DeepSeek-backed video analyzer. The chat
// API is asked for a strict JSON evaluation; any transport, API, or parse
// failure degrades to the local heuristic analyzer so Analyze never fails.
package deepseek

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"video-analyzer-service/internal/domain"
	"video-analyzer-service/internal/infra/provider"
)

const chatEndpoint = "/v1/chat/completions"

const systemPrompt = "你是一位专业的短视频内容分析师，擅长分析视频数据并提供精准的优化建议。"

// Config holds DeepSeek client settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Client      provider.ClientConfig
}

// Client implements domain.Analyzer against the DeepSeek chat API.
type Client struct {
	cfg    Config
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a DeepSeek analyzer. An empty API key is allowed: the client
// then answers every request from the heuristic analyzer.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.APIKey == "" {
		logger.Warn("deepseek api key not configured, heuristic analysis only")
	}

	return &Client{
		cfg:    cfg,
		client: provider.NewRestyClient(cfg.Client),
		cb:     provider.NewCircuitBreaker[*resty.Response]("deepseek", cfg.Client.CB),
		logger: logger,
	}
}

// Analyze evaluates a video record. The model is prompted for JSON in the
// exact shape of domain.AnalysisResult; when the key is missing or the call
// or parse fails, the heuristic result is returned instead.
func (c *Client) Analyze(ctx context.Context, rec *domain.VideoRecord) *domain.AnalysisResult {
	if c.cfg.APIKey == "" {
		return domain.HeuristicAnalysis(rec)
	}

	req := chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(rec)},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	var chat chatResponse
	_, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetAuthToken(c.cfg.APIKey).
			SetHeader("Content-Type", "application/json").
			SetBody(req).
			SetResult(&chat).
			Post(chatEndpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("deepseek returned status %d", r.StatusCode())
		}
		return r, nil
	})
	if err != nil {
		c.logger.Warn("deepseek call failed, using heuristic analysis",
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)
		return domain.HeuristicAnalysis(rec)
	}

	if chat.Error != nil {
		c.logger.Warn("deepseek rejected request, using heuristic analysis",
			zap.String("type", chat.Error.Type),
			zap.String("message", chat.Error.Message),
		)
		return domain.HeuristicAnalysis(rec)
	}

	if len(chat.Choices) == 0 {
		c.logger.Warn("deepseek returned no choices, using heuristic analysis")
		return domain.HeuristicAnalysis(rec)
	}

	result, err := ParseResult(chat.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn("deepseek response not parseable, using heuristic analysis",
			zap.Error(err),
		)
		return domain.HeuristicAnalysis(rec)
	}

	c.logger.Info("deepseek analysis completed",
		zap.Int("score", result.Score),
		zap.String("platform", string(rec.Platform)),
	)

	return result
}

// BuildPrompt renders the analysis request. The shape of the JSON asked for
// matches domain.AnalysisResult field for field.
func BuildPrompt(rec *domain.VideoRecord) string {
	var sb strings.Builder

	sb.WriteString("作为专业的视频内容分析师，请分析以下视频数据并提供优化建议：\n\n")
	sb.WriteString("视频信息：\n")
	fmt.Fprintf(&sb, "- 平台: %s\n", rec.Platform)
	fmt.Fprintf(&sb, "- 标题: %s\n", rec.Title)
	fmt.Fprintf(&sb, "- 描述: %s\n", rec.Description)
	fmt.Fprintf(&sb, "- 时长: %d秒\n", rec.Duration)
	fmt.Fprintf(&sb, "- 播放量: %d\n", rec.Views)
	fmt.Fprintf(&sb, "- 点赞数: %d\n", rec.Likes)
	fmt.Fprintf(&sb, "- 评论数: %d\n", rec.Comments)
	fmt.Fprintf(&sb, "- 分享数: %d\n", rec.Shares)
	fmt.Fprintf(&sb, "- 标签: %s\n", strings.Join(rec.Tags, ", "))
	fmt.Fprintf(&sb, "- 作者: %s\n", rec.AuthorName())
	fmt.Fprintf(&sb, "- 粉丝数: %d\n", rec.AuthorFollowers())

	sb.WriteString(`
请从以下几个维度进行分析：

1. 内容质量评估 (1-100分)
2. 标题优化建议
3. 封面优化建议
4. 发布时机建议
5. 标签优化建议
6. 互动率分析
7. 传播潜力预测
8. 具体改进建议

请以JSON格式返回分析结果，包含：
{
  "score": 数字评分,
  "analysis": {
    "content_quality": "内容质量分析",
    "engagement_rate": "互动率分析",
    "viral_potential": "传播潜力",
    "strengths": ["优势点1", "优势点2"],
    "weaknesses": ["待改进点1", "待改进点2"]
  },
  "suggestions": {
    "title": "标题优化建议",
    "thumbnail": "封面优化建议",
    "timing": "发布时机建议",
    "tags": ["推荐标签1", "推荐标签2"],
    "content": "内容优化建议"
  }
}
`)

	return sb.String()
}

// ParseResult decodes the model output into an AnalysisResult. Models wrap
// JSON in markdown fences often enough that they are stripped first; the
// score is accepted as a float and clamped to [0,100].
func ParseResult(content string) (*domain.AnalysisResult, error) {
	cleaned := StripFences(content)

	var raw struct {
		Score       float64            `json:"score"`
		Analysis    domain.Analysis    `json:"analysis"`
		Suggestions domain.Suggestions `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("decoding model output: %w", err)
	}

	score := int(raw.Score)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &domain.AnalysisResult{
		Score:       score,
		Analysis:    raw.Analysis,
		Suggestions: raw.Suggestions,
	}, nil
}

// StripFences removes a surrounding markdown code fence from model output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
