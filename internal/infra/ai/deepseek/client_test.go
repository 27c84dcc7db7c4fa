package deepseek

import (
	"context"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"video-analyzer-service/internal/domain"
	"video-analyzer-service/internal/infra/provider"
)

const testBaseURL = "https://deepseek.test"

func newTestClient(apiKey string) *Client {
	cfg := Config{
		APIKey:      apiKey,
		Model:       "deepseek-chat",
		Temperature: 0.3,
		MaxTokens:   2000,
		Client: provider.ClientConfig{
			BaseURL: testBaseURL,
			Timeout: 5 * time.Second,
			Retry: provider.RetryConfig{
				MaxAttempts: 1,
				WaitTime:    10 * time.Millisecond,
				MaxWaitTime: 50 * time.Millisecond,
			},
			CB: provider.CBConfig{
				MaxRequests:  5,
				Interval:     60 * time.Second,
				Timeout:      15 * time.Second,
				FailureRatio: 0.6,
			},
		},
	}

	client := New(cfg, zap.NewNop())
	httpmock.ActivateNonDefault(client.client.GetClient())

	return client
}

func sampleRecord() *domain.VideoRecord {
	return &domain.VideoRecord{
		Platform: domain.PlatformDouyin,
		VideoID:  "7312345",
		URL:      "https://www.douyin.com/video/7312345",
		Title:    "3分钟学会制作爆款短视频！新手必看技巧分享",
		Views:    2845673,
		Likes:    89234,
		Comments: 12456,
		Shares:   5678,
		Duration: 183,
		Author: &domain.Author{
			Name:      "短视频创作导师",
			Followers: 156789,
		},
		Tags:    []string{"短视频", "创作技巧"},
		Success: true,
	}
}

const modelJSON = `{
  "score": 85,
  "analysis": {
    "content_quality": "内容质量很高",
    "engagement_rate": "互动率表现突出",
    "viral_potential": "具有很高的传播潜力",
    "strengths": ["标题吸引人", "节奏紧凑"],
    "weaknesses": ["结尾缺少行动号召"]
  },
  "suggestions": {
    "title": "可加入数字增强吸引力",
    "thumbnail": "建议使用高对比度封面",
    "timing": "建议在19:00-22:00发布",
    "tags": ["热门", "干货分享"],
    "content": "开头3秒需要更强的钩子"
  }
}`

func chatSuccessResponder(content string) httpmock.Responder {
	return httpmock.NewJsonResponderOrPanic(200, map[string]any{
		"id": "chatcmpl-test",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	})
}

func TestAnalyze_Success(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient("test-key")
	httpmock.RegisterResponder("POST", testBaseURL+chatEndpoint, chatSuccessResponder(modelJSON))

	result := client.Analyze(context.Background(), sampleRecord())

	require.NotNil(t, result)
	assert.Equal(t, 85, result.Score)
	assert.Equal(t, "内容质量很高", result.Analysis.ContentQuality)
	assert.Equal(t, []string{"标题吸引人", "节奏紧凑"}, result.Analysis.Strengths)
	assert.Equal(t, "可加入数字增强吸引力", result.Suggestions.Title)
	assert.Equal(t, []string{"热门", "干货分享"}, result.Suggestions.Tags)
}

func TestAnalyze_FencedOutput(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient("test-key")
	httpmock.RegisterResponder("POST", testBaseURL+chatEndpoint,
		chatSuccessResponder("```json\n"+modelJSON+"\n```"))

	result := client.Analyze(context.Background(), sampleRecord())

	assert.Equal(t, 85, result.Score)
	assert.Equal(t, "内容质量很高", result.Analysis.ContentQuality)
}

func TestAnalyze_NoAPIKey(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient("")
	rec := sampleRecord()

	result := client.Analyze(context.Background(), rec)

	require.NotNil(t, result)
	assert.Equal(t, domain.HeuristicAnalysis(rec), result)
	assert.Empty(t, httpmock.GetCallCountInfo(), "no HTTP calls without a key")
}

func TestAnalyze_HTTPError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient("test-key")
	httpmock.RegisterResponder("POST", testBaseURL+chatEndpoint,
		httpmock.NewStringResponder(500, "Internal Server Error"))

	rec := sampleRecord()
	result := client.Analyze(context.Background(), rec)

	assert.Equal(t, domain.HeuristicAnalysis(rec), result)
}

func TestAnalyze_UnparseableOutput(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient("test-key")
	httpmock.RegisterResponder("POST", testBaseURL+chatEndpoint,
		chatSuccessResponder("很抱歉，我无法分析这个视频。"))

	rec := sampleRecord()
	result := client.Analyze(context.Background(), rec)

	assert.Equal(t, domain.HeuristicAnalysis(rec), result)
}

func TestAnalyze_ScoreClamped(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := newTestClient("test-key")
	httpmock.RegisterResponder("POST", testBaseURL+chatEndpoint,
		chatSuccessResponder(`{"score": 150, "analysis": {}, "suggestions": {}}`))

	result := client.Analyze(context.Background(), sampleRecord())

	assert.Equal(t, 100, result.Score)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading whitespace", "  \n```json\n{}\n```  ", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}
