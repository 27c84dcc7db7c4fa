// Package xiaohongshu implements the Xiaohongshu provider. The platform has
// no public metadata API; notes are served as a fixed demo record whose
// counts arrive in the site's display format ("23.5w") and are normalized
// here.
package xiaohongshu

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"video-analyzer-service/internal/domain"
)

// Client implements domain.Provider for Xiaohongshu.
type Client struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Client {
	return &Client{logger: logger}
}

// Platform returns the platform identifier.
func (c *Client) Platform() domain.Platform {
	return domain.PlatformXiaohongshu
}

// Fetch returns the demo record for a Xiaohongshu note. The platform does
// not expose view counts at all, so views are estimated as five times the
// like count.
func (c *Client) Fetch(_ context.Context, videoID, url string) *domain.VideoRecord {
	c.logger.Debug("xiaohongshu has no public api, using demo data",
		zap.String("video_id", videoID),
	)

	likes := ParseCount("23.5w")
	comments := ParseCount("8934")
	shares := ParseCount("4567")

	return &domain.VideoRecord{
		Platform:    domain.PlatformXiaohongshu,
		VideoID:     videoID,
		URL:         url,
		Title:       "这个护肤routine真的绝了！一周见效✨",
		Description: "亲测一周的护肤流程分享，步骤和产品都写在这里了",
		Thumbnail:   "https://sns-webpic-qc.xhscdn.com/sample-cover.jpg",
		Views:       likes * 5,
		Likes:       likes,
		Comments:    comments,
		Shares:      shares,
		Duration:    95,
		PublishedAt: time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -3),
		Author: &domain.Author{
			Name:      "护肤小能手",
			Avatar:    "https://sns-avatar-qc.xhscdn.com/sample-avatar.jpg",
			Followers: 567890,
		},
		Tags:    []string{"护肤", "护肤routine", "美妆", "变美"},
		Success: true,
	}
}

// ParseCount converts a display count such as "23.5w", "8934" or "1,234" to
// an absolute number. The w suffix multiplies by 10000, thousands separators
// are ignored, and unparseable input yields 0.
func ParseCount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	multiplier := int64(1)
	if strings.HasSuffix(s, "w") || strings.HasSuffix(s, "W") {
		multiplier = 10000
		s = s[:len(s)-1]
	}

	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return int64(value * float64(multiplier))
}
