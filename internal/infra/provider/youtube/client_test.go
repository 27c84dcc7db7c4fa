package youtube

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"video-analyzer-service/internal/domain"
)

const (
	testVideoID = "dQw4w9WgXcQ"
	testURL     = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

	// Endpoint injected so httpmock can intercept the service's calls.
	mockEndpoint = "https://yt-api.test/"
)

func newMockedClient(t *testing.T) *Client {
	t.Helper()

	httpClient := &http.Client{}
	httpmock.ActivateNonDefault(httpClient)

	svc, err := ytapi.NewService(context.Background(),
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(mockEndpoint),
	)
	require.NoError(t, err)

	return NewWithService(svc, zap.NewNop())
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"PT12M34S", 754},
		{"PT0S", 0},
		{"invalid", 0},
		{"", 0},
		{"PT1H", 3600},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT90M", 5400},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDuration(tt.input))
		})
	}
}

// TestFetch_NoAPIKey verifies the synthetic path when no key is configured.
func TestFetch_NoAPIKey(t *testing.T) {
	client := New(Config{}, zap.NewNop())

	rec := client.Fetch(context.Background(), testVideoID, testURL)

	require.True(t, rec.Success)
	assert.Equal(t, domain.PlatformYouTube, rec.Platform)
	assert.Equal(t, testVideoID, rec.VideoID)
	assert.Contains(t, rec.Title, testVideoID)
	assert.GreaterOrEqual(t, rec.Views, int64(100000))
	assert.Greater(t, rec.Likes, int64(0))
	assert.GreaterOrEqual(t, rec.Duration, int64(120))
	assert.Equal(t, int64(0), rec.Shares)
	require.NotNil(t, rec.Author)
	assert.NotEmpty(t, rec.Author.Name)
}

// TestFetch_SyntheticDeterminism verifies the reproducibility contract:
// same URL, same fake numbers.
func TestFetch_SyntheticDeterminism(t *testing.T) {
	client := New(Config{}, zap.NewNop())
	ctx := context.Background()

	first := client.Fetch(ctx, testVideoID, testURL)
	for i := 0; i < 5; i++ {
		again := client.Fetch(ctx, testVideoID, testURL)
		assert.Equal(t, first.Views, again.Views)
		assert.Equal(t, first.Likes, again.Likes)
		assert.Equal(t, first.Comments, again.Comments)
		assert.Equal(t, first.Duration, again.Duration)
		assert.Equal(t, first.PublishedAt, again.PublishedAt)
	}

	// A different URL should not produce the same metrics.
	other := client.Fetch(ctx, "aaaaaaaaaaa", "https://www.youtube.com/watch?v=aaaaaaaaaaa")
	assert.NotEqual(t, first.Views, other.Views)
}

func TestFetch_APISuccess(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", `=~^https://yt-api\.test/youtube/v3/videos`,
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"items": []map[string]any{
				{
					"id": testVideoID,
					"snippet": map[string]any{
						"title":        "Never Gonna Give You Up",
						"description":  "Official video",
						"channelId":    "UCuAXFkgsw1L7xaCfnd5JJOw",
						"channelTitle": "Rick Astley",
						"publishedAt":  "2009-10-25T06:57:33Z",
						"tags":         []string{"rick astley", "music"},
						"thumbnails": map[string]any{
							"high": map[string]any{"url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"},
						},
					},
					"statistics": map[string]any{
						"viewCount":    "1400000000",
						"likeCount":    "16000000",
						"commentCount": "2200000",
					},
					"contentDetails": map[string]any{"duration": "PT3M33S"},
				},
			},
		}))

	httpmock.RegisterResponder("GET", `=~^https://yt-api\.test/youtube/v3/channels`,
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"items": []map[string]any{
				{"statistics": map[string]any{"subscriberCount": "4300000"}},
			},
		}))

	client := newMockedClient(t)
	rec := client.Fetch(context.Background(), testVideoID, testURL)

	require.True(t, rec.Success)
	assert.Equal(t, "Never Gonna Give You Up", rec.Title)
	assert.Equal(t, int64(1400000000), rec.Views)
	assert.Equal(t, int64(16000000), rec.Likes)
	assert.Equal(t, int64(2200000), rec.Comments)
	assert.Equal(t, int64(213), rec.Duration)
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", rec.Thumbnail)
	require.NotNil(t, rec.Author)
	assert.Equal(t, "Rick Astley", rec.Author.Name)
	assert.Equal(t, int64(4300000), rec.Author.Followers)
}

// TestFetch_ChannelLookupFails verifies the secondary call is non-fatal.
func TestFetch_ChannelLookupFails(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", `=~^https://yt-api\.test/youtube/v3/videos`,
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"items": []map[string]any{
				{
					"id": testVideoID,
					"snippet": map[string]any{
						"title":        "Never Gonna Give You Up",
						"channelId":    "UCuAXFkgsw1L7xaCfnd5JJOw",
						"channelTitle": "Rick Astley",
					},
					"statistics": map[string]any{"viewCount": "100"},
				},
			},
		}))
	httpmock.RegisterResponder("GET", `=~^https://yt-api\.test/youtube/v3/channels`,
		httpmock.NewStringResponder(500, "Internal Server Error"))

	client := newMockedClient(t)
	rec := client.Fetch(context.Background(), testVideoID, testURL)

	require.True(t, rec.Success)
	assert.Equal(t, "Never Gonna Give You Up", rec.Title)
	require.NotNil(t, rec.Author)
	assert.Equal(t, int64(0), rec.Author.Followers)
}

// TestFetch_APIError falls back to synthetic data on upstream failure.
func TestFetch_APIError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", `=~^https://yt-api\.test/youtube/v3/videos`,
		httpmock.NewStringResponder(403, `{"error":{"message":"quota exceeded"}}`))

	client := newMockedClient(t)
	rec := client.Fetch(context.Background(), testVideoID, testURL)

	require.True(t, rec.Success, "synthetic fallback still succeeds")
	assert.Contains(t, rec.Title, "演示数据")
}

// TestFetch_ZeroItems treats an empty result set like a failed call.
func TestFetch_ZeroItems(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", `=~^https://yt-api\.test/youtube/v3/videos`,
		httpmock.NewJsonResponderOrPanic(200, map[string]any{"items": []map[string]any{}}))

	client := newMockedClient(t)
	rec := client.Fetch(context.Background(), testVideoID, testURL)

	require.True(t, rec.Success)
	assert.Contains(t, rec.Title, "演示数据")
}

func TestToRecord_MissingSections(t *testing.T) {
	rec := toRecord(&ytapi.Video{}, testVideoID, testURL)

	assert.True(t, rec.Success)
	assert.Empty(t, rec.Title)
	assert.Zero(t, rec.Views)
	assert.Zero(t, rec.Duration)
	assert.Nil(t, rec.Author)
}

func TestBestThumbnail_Preference(t *testing.T) {
	details := &ytapi.ThumbnailDetails{
		Default: &ytapi.Thumbnail{Url: "default.jpg"},
		Medium:  &ytapi.Thumbnail{Url: "medium.jpg"},
		Maxres:  &ytapi.Thumbnail{Url: "maxres.jpg"},
	}

	assert.Equal(t, "maxres.jpg", bestThumbnail(details))

	details.Maxres = nil
	assert.Equal(t, "medium.jpg", bestThumbnail(details))

	assert.Equal(t, "", bestThumbnail(nil))
}
