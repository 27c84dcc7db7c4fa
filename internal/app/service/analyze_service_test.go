package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"video-analyzer-service/internal/domain"
)

// fakeAnalyzer returns a canned result; nil simulates total analyzer outage.
type fakeAnalyzer struct {
	result *domain.AnalysisResult
	calls  int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ *domain.VideoRecord) *domain.AnalysisResult {
	f.calls++
	return f.result
}

// memoryCache is a map-backed domain.Cache for tests.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func goodResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Score: 85,
		Analysis: domain.Analysis{
			ContentQuality: "内容质量很高",
			EngagementRate: "互动率为 3.77%",
			ViralPotential: "具有很高的传播潜力",
			Strengths:      []string{"标题吸引人"},
			Weaknesses:     []string{"暂无明显不足"},
		},
		Suggestions: domain.Suggestions{
			Title:  "标题长度合适",
			Timing: "建议在19:00-22:00发布",
			Tags:   []string{"热门"},
		},
	}
}

func newAnalyzeService(analyzer domain.Analyzer, opts Options) *AnalyzeService {
	resolver := NewResolveService([]domain.Provider{
		&fakeProvider{
			platform: domain.PlatformYouTube,
			record: &domain.VideoRecord{
				Platform: domain.PlatformYouTube,
				VideoID:  "dQw4w9WgXcQ",
				URL:      "https://youtu.be/dQw4w9WgXcQ",
				Title:    "Never Gonna Give You Up",
				Views:    1000000,
				Likes:    50000,
				Comments: 8000,
				Shares:   2000,
				Duration: 212,
				Success:  true,
			},
		},
	}, zap.NewNop())

	return NewAnalyzeService(resolver, analyzer, opts, zap.NewNop())
}

func TestAnalyze_Success(t *testing.T) {
	svc := newAnalyzeService(&fakeAnalyzer{result: goodResult()}, Options{})
	svc.now = func() time.Time { return time.UnixMilli(1700000000000).UTC() }

	envelope, err := svc.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, "analysis-1700000000000", envelope.ID)
	assert.Equal(t, "youtube", envelope.Platform)
	assert.Equal(t, "dQw4w9WgXcQ", envelope.VideoID)
	assert.Equal(t, "Never Gonna Give You Up", envelope.Title)
	assert.Equal(t, "1000000", envelope.Views)
	assert.Equal(t, "50000", envelope.Likes)
	assert.Equal(t, "8000", envelope.Comments)
	assert.Equal(t, "2000", envelope.Shares)
	assert.Equal(t, int64(212), envelope.Duration)
	assert.True(t, envelope.Success)
	assert.Equal(t, 85, envelope.Score)
	assert.Equal(t, goodResult().Analysis, envelope.AIAnalysis)
	assert.Equal(t, goodResult().Suggestions, envelope.Suggestions)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), envelope.CreatedAt)
}

func TestAnalyze_UnsupportedURL(t *testing.T) {
	analyzer := &fakeAnalyzer{result: goodResult()}
	svc := newAnalyzeService(analyzer, Options{})

	envelope, err := svc.Analyze(context.Background(), "https://example.com/foo")

	require.Nil(t, envelope)
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "unsupported link format", resErr.Reason)
	assert.Zero(t, analyzer.calls, "analyzer must not run for failed resolution")
}

func TestAnalyze_AnalyzerOutage(t *testing.T) {
	svc := newAnalyzeService(&fakeAnalyzer{result: nil}, Options{})

	envelope, err := svc.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.True(t, envelope.Success, "video data still delivered")
	assert.Equal(t, "暂时无法获取AI分析，请稍后重试", envelope.AIAnalysis)
	assert.Equal(t, []string{"检查网络连接", "确认API密钥配置正确"}, envelope.Suggestions)
	assert.Equal(t, 0, envelope.Score)
}

// panickingAnalyzer simulates a backend bug blowing up mid-analysis.
type panickingAnalyzer struct{}

func (panickingAnalyzer) Analyze(_ context.Context, _ *domain.VideoRecord) *domain.AnalysisResult {
	panic("analyzer exploded")
}

func TestAnalyze_AnalyzerPanicDegrades(t *testing.T) {
	svc := newAnalyzeService(panickingAnalyzer{}, Options{})

	envelope, err := svc.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.True(t, envelope.Success, "video data still delivered")
	assert.Equal(t, "暂时无法获取AI分析，请稍后重试", envelope.AIAnalysis)
	assert.Equal(t, []string{"检查网络连接", "确认API密钥配置正确"}, envelope.Suggestions)
	assert.Equal(t, 0, envelope.Score)
}

func TestAnalyze_IDPrefix(t *testing.T) {
	svc := newAnalyzeService(&fakeAnalyzer{result: goodResult()}, Options{})

	envelope, err := svc.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(envelope.ID, "analysis-"))
}

func TestAnalyze_CacheRoundTrip(t *testing.T) {
	analyzer := &fakeAnalyzer{result: goodResult()}
	svc := newAnalyzeService(analyzer, Options{
		Cache:    newMemoryCache(),
		CacheTTL: time.Minute,
	})

	first, err := svc.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	second, err := svc.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, 1, analyzer.calls, "second request served from cache")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Views, second.Views)
	assert.Equal(t, first.Score, second.Score)
}

func TestAnalyze_CacheSkipsFailedResolution(t *testing.T) {
	cache := newMemoryCache()
	svc := newAnalyzeService(&fakeAnalyzer{result: goodResult()}, Options{
		Cache:    cache,
		CacheTTL: time.Minute,
	})

	_, err := svc.Analyze(context.Background(), "https://example.com/foo")
	require.Error(t, err)

	assert.Empty(t, cache.data, "failures are never cached")
}
