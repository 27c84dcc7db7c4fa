package xiaohongshu

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"video-analyzer-service/internal/domain"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"23.5w", 235000},
		{"1w", 10000},
		{"2.5W", 25000},
		{"8934", 8934},
		{"1,234", 1234},
		{"1,234,567", 1234567},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{" 100 ", 100},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCount(tt.in))
		})
	}
}

func TestFetch_DemoRecord(t *testing.T) {
	client := New(zap.NewNop())

	assert.Equal(t, domain.PlatformXiaohongshu, client.Platform())

	rec := client.Fetch(context.Background(), "64f1a2b3c4d5e6f7", "https://www.xiaohongshu.com/explore/64f1a2b3c4d5e6f7")

	require.True(t, rec.Success)
	assert.Equal(t, domain.PlatformXiaohongshu, rec.Platform)
	assert.Equal(t, "这个护肤routine真的绝了！一周见效✨", rec.Title)
	assert.Equal(t, int64(235000), rec.Likes)
	assert.Equal(t, int64(235000*5), rec.Views, "views are estimated from likes")
	assert.Equal(t, int64(8934), rec.Comments)
	assert.Equal(t, int64(4567), rec.Shares)
	assert.Equal(t, int64(95), rec.Duration)
	require.NotNil(t, rec.Author)
	assert.Equal(t, int64(567890), rec.Author.Followers)
	assert.Equal(t, []string{"护肤", "护肤routine", "美妆", "变美"}, rec.Tags)

	threeDaysAgo := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -3)
	assert.Equal(t, threeDaysAgo, rec.PublishedAt)
}
