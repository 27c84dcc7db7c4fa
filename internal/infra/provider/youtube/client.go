// Package youtube implements the YouTube metadata provider on top of the
// official Data API v3 client.
package youtube

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"video-analyzer-service/internal/domain"
	"video-analyzer-service/internal/infra/provider"
)

// Config holds YouTube provider configuration. An empty APIKey is valid:
// the provider then serves synthetic data only.
type Config struct {
	APIKey  string
	Timeout time.Duration
}

// Client implements domain.Provider for YouTube.
type Client struct {
	svc     *ytapi.Service
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a YouTube provider. When no API key is configured, or the
// service cannot be constructed, the client degrades to the synthetic path
// rather than failing: the product must stay demonstrable without
// credentials.
func New(cfg Config, logger *zap.Logger) *Client {
	c := &Client{timeout: cfg.Timeout, logger: logger}

	if cfg.APIKey == "" {
		logger.Info("youtube api key not configured, serving synthetic data")
		return c
	}

	svc, err := ytapi.NewService(context.Background(), option.WithAPIKey(cfg.APIKey))
	if err != nil {
		logger.Warn("youtube service init failed, serving synthetic data", zap.Error(err))
		return c
	}

	c.svc = svc
	return c
}

// NewWithService builds a Client around an existing YouTube service.
// Intended for tests that inject a service backed by a mock HTTP client.
func NewWithService(svc *ytapi.Service, logger *zap.Logger) *Client {
	return &Client{svc: svc, logger: logger}
}

// Platform returns the platform identifier.
func (c *Client) Platform() domain.Platform {
	return domain.PlatformYouTube
}

// Fetch resolves a YouTube video to a VideoRecord. Any failure on the
// primary call (missing key, transport error, zero items) falls back to
// deterministic synthetic data; failure of the secondary channel call only
// costs the follower count.
func (c *Client) Fetch(ctx context.Context, videoID, url string) *domain.VideoRecord {
	if c.svc == nil {
		return c.demoRecord(videoID, url)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.svc.Videos.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		c.logger.Warn("youtube videos.list failed, using synthetic data",
			zap.String("video_id", videoID),
			zap.Error(err),
		)
		return c.demoRecord(videoID, url)
	}
	if len(resp.Items) == 0 {
		c.logger.Warn("youtube video not found, using synthetic data",
			zap.String("video_id", videoID),
		)
		return c.demoRecord(videoID, url)
	}

	rec := toRecord(resp.Items[0], videoID, url)

	// Secondary call for subscriber count. Non-fatal: followers stay 0.
	if channelID := videoChannelID(resp.Items[0]); channelID != "" {
		if n, err := c.subscriberCount(ctx, channelID); err != nil {
			c.logger.Warn("youtube channel lookup failed",
				zap.String("channel_id", channelID),
				zap.Error(err),
			)
		} else if rec.Author != nil {
			rec.Author.Followers = n
		}
	}

	c.logger.Info("youtube fetch completed",
		zap.String("video_id", videoID),
		zap.Int64("views", rec.Views),
	)

	return rec
}

func videoChannelID(item *ytapi.Video) string {
	if item.Snippet == nil {
		return ""
	}
	return item.Snippet.ChannelId
}

func (c *Client) subscriberCount(ctx context.Context, channelID string) (int64, error) {
	resp, err := c.svc.Channels.
		List([]string{"statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return 0, err
	}
	if len(resp.Items) == 0 || resp.Items[0].Statistics == nil {
		return 0, fmt.Errorf("channel %s not found", channelID)
	}

	return int64(resp.Items[0].Statistics.SubscriberCount), nil
}

// toRecord maps a Data API video resource to the normalized record.
func toRecord(item *ytapi.Video, videoID, url string) *domain.VideoRecord {
	rec := &domain.VideoRecord{
		Platform: domain.PlatformYouTube,
		VideoID:  videoID,
		URL:      url,
		Shares:   0, // not exposed by the Data API
		Success:  true,
	}

	if sn := item.Snippet; sn != nil {
		rec.Title = sn.Title
		rec.Description = sn.Description
		rec.Thumbnail = bestThumbnail(sn.Thumbnails)
		rec.Tags = sn.Tags
		rec.Author = &domain.Author{Name: sn.ChannelTitle}
		if ts, err := time.Parse(time.RFC3339, sn.PublishedAt); err == nil {
			rec.PublishedAt = ts
		}
	}

	if st := item.Statistics; st != nil {
		rec.Views = int64(st.ViewCount)
		rec.Likes = int64(st.LikeCount)
		rec.Comments = int64(st.CommentCount)
	}

	if cd := item.ContentDetails; cd != nil {
		rec.Duration = ParseDuration(cd.Duration)
	}

	return rec
}

func bestThumbnail(t *ytapi.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*ytapi.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

var durationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDuration converts an ISO-8601 style duration token restricted to
// hours/minutes/seconds (e.g. "PT12M34S") into total seconds. A token that
// matches no component yields 0.
func ParseDuration(duration string) int64 {
	m := durationRe.FindStringSubmatch(duration)
	if m == nil {
		return 0
	}

	var total int64
	if m[1] != "" {
		if h, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			total += h * 3600
		}
	}
	if m[2] != "" {
		if min, err := strconv.ParseInt(m[2], 10, 64); err == nil {
			total += min * 60
		}
	}
	if m[3] != "" {
		if s, err := strconv.ParseInt(m[3], 10, 64); err == nil {
			total += s
		}
	}

	return total
}

// demoRecord generates deterministic synthetic data for a URL. Same URL,
// same numbers: views, ratios, duration, and publish offset are all
// functions of the URL seed.
func (c *Client) demoRecord(videoID, url string) *domain.VideoRecord {
	seed := provider.Seed(url)

	views := 100000 + seed%1000000
	likes := int64(float64(views) * (0.02 + float64(seed%80)/1000))
	comments := int64(float64(likes) * (0.05 + float64(seed%30)/1000))
	duration := 120 + seed%800 // 2-15 minutes

	return &domain.VideoRecord{
		Platform:    domain.PlatformYouTube,
		VideoID:     videoID,
		URL:         url,
		Title:       fmt.Sprintf("【演示数据】YouTube视频ID: %s 的分析结果", videoID),
		Description: "这是演示数据。在实际部署中，我们会尝试获取真实的YouTube视频数据。如果API可用，您将看到真实的视频标题、描述、播放量等信息。当前显示的数据是基于视频URL生成的演示数据。",
		Thumbnail:   fmt.Sprintf("https://i.ytimg.com/vi/%s/maxresdefault.jpg", videoID),
		Views:       views,
		Likes:       likes,
		Comments:    comments,
		Shares:      0,
		Duration:    duration,
		PublishedAt: provider.PublishedDaysAgo(seed, 10),
		Author: &domain.Author{
			Name:      "演示频道",
			Followers: 50000 + seed%200000,
		},
		Tags:    []string{"演示数据", "YouTube", "视频分析", "AI分析"},
		Success: true,
	}
}
