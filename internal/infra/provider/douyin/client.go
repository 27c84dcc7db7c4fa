// Package douyin implements the Douyin provider. Douyin exposes no public
// metadata API, so the provider always answers with a fixed demo record.
package douyin

import (
	"context"
	"time"

	"go.uber.org/zap"

	"video-analyzer-service/internal/domain"
)

// Client implements domain.Provider for Douyin.
type Client struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Client {
	return &Client{logger: logger}
}

// Platform returns the platform identifier.
func (c *Client) Platform() domain.Platform {
	return domain.PlatformDouyin
}

// Fetch returns the demo record for a Douyin link. The record shape mirrors
// what a real metadata call would return so downstream analysis code never
// distinguishes the two.
func (c *Client) Fetch(_ context.Context, videoID, url string) *domain.VideoRecord {
	c.logger.Debug("douyin has no public api, using demo data",
		zap.String("video_id", videoID),
	)

	return &domain.VideoRecord{
		Platform:    domain.PlatformDouyin,
		VideoID:     videoID,
		URL:         url,
		Title:       "3分钟学会制作爆款短视频！新手必看技巧分享",
		Description: "分享短视频创作的核心技巧，从选题到剪辑一次讲清楚",
		Thumbnail:   "https://p3-sign.douyinpic.com/sample-cover.jpeg",
		Views:       2845673,
		Likes:       89234,
		Comments:    12456,
		Shares:      5678,
		Duration:    183,
		PublishedAt: time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1),
		Author: &domain.Author{
			Name:      "短视频创作导师",
			Avatar:    "https://p3-pc.douyinpic.com/sample-avatar.jpeg",
			Followers: 156789,
		},
		Tags:    []string{"短视频", "创作技巧", "新手教程", "爆款秘籍"},
		Success: true,
	}
}
