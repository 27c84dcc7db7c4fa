// Package bilibili implements the Bilibili metadata provider against the
// public web-interface API.
package bilibili

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"video-analyzer-service/internal/domain"
	"video-analyzer-service/internal/infra/provider"
)

const (
	viewEndpoint     = "/x/web-interface/view"
	relationEndpoint = "/x/relation/stat"
)

// Client implements domain.Provider for Bilibili.
type Client struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a Bilibili provider client.
func New(cfg provider.ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		client: provider.NewRestyClient(cfg),
		cb:     provider.NewCircuitBreaker[*resty.Response]("bilibili", cfg.CB),
		logger: logger,
	}
}

// Platform returns the platform identifier.
func (c *Client) Platform() domain.Platform {
	return domain.PlatformBilibili
}

// Fetch resolves a Bilibili video to a VideoRecord. The canonical BV token
// is extracted from the URL or the classified id; when extraction or the
// metadata call fails, the record comes from the synthetic generator. The
// follower lookup is a secondary call whose failure only costs followers=0.
func (c *Client) Fetch(ctx context.Context, videoID, url string) *domain.VideoRecord {
	bvid, ok := ExtractBVID(videoID, url)
	if !ok {
		// Legacy av numbers are recognized upstream but not convertible to
		// BV form here; they take the synthetic path deliberately.
		c.logger.Debug("no BV id extractable, using synthetic data",
			zap.String("video_id", videoID),
		)
		return c.demoRecord(videoID, url)
	}

	var view viewResponse
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetQueryParam("bvid", bvid).
			SetHeader("Referer", "https://www.bilibili.com/").
			SetResult(&view).
			Get(viewEndpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("bilibili returned status %d", r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("bilibili view fetch failed, using synthetic data",
			zap.String("bvid", bvid),
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)
		return c.demoRecord(videoID, url)
	}
	_ = resp

	if view.Code != 0 {
		c.logger.Warn("bilibili api rejected request, using synthetic data",
			zap.String("bvid", bvid),
			zap.Int("code", view.Code),
			zap.String("message", view.Message),
		)
		return c.demoRecord(videoID, url)
	}

	rec := toRecord(&view.Data, videoID, url)

	// Secondary follower-count call; failure is non-fatal.
	if followers, err := c.followerCount(ctx, view.Data.Owner.Mid); err != nil {
		c.logger.Warn("bilibili uploader lookup failed",
			zap.Int64("mid", view.Data.Owner.Mid),
			zap.Error(err),
		)
	} else if rec.Author != nil {
		rec.Author.Followers = followers
	}

	c.logger.Info("bilibili fetch completed",
		zap.String("bvid", bvid),
		zap.Int64("views", rec.Views),
	)

	return rec
}

func (c *Client) followerCount(ctx context.Context, mid int64) (int64, error) {
	var rel relationResponse
	r, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("vmid", strconv.FormatInt(mid, 10)).
		SetHeader("Referer", "https://www.bilibili.com/").
		SetResult(&rel).
		Get(relationEndpoint)
	if err != nil {
		return 0, err
	}
	if r.IsError() {
		return 0, fmt.Errorf("relation stat returned status %d", r.StatusCode())
	}
	if rel.Code != 0 {
		return 0, fmt.Errorf("relation stat returned code %d", rel.Code)
	}

	return rel.Data.Follower, nil
}

func toRecord(data *viewData, videoID, url string) *domain.VideoRecord {
	tags := make([]string, 0, len(data.Tag))
	for _, t := range data.Tag {
		tags = append(tags, t.TagName)
	}

	return &domain.VideoRecord{
		Platform:    domain.PlatformBilibili,
		VideoID:     videoID,
		URL:         url,
		Title:       data.Title,
		Description: data.Desc,
		Thumbnail:   data.Pic,
		Views:       data.Stat.View,
		Likes:       data.Stat.Like,
		Comments:    data.Stat.Reply,
		Shares:      data.Stat.Share,
		Duration:    data.Duration,
		PublishedAt: time.Unix(data.Pubdate, 0).UTC(),
		Author: &domain.Author{
			Name:   data.Owner.Name,
			Avatar: data.Owner.Face,
		},
		Tags:    tags,
		Success: true,
	}
}

var bvidRe = regexp.MustCompile(`(?i)BV([a-zA-Z0-9]+)`)

// ExtractBVID pulls the canonical BV token out of a URL or classified id.
// Legacy av<digits> identifiers are not convertible without a published
// algorithm, so they report ok=false and fall through to synthetic data.
func ExtractBVID(videoID, url string) (string, bool) {
	if m := bvidRe.FindStringSubmatch(url); m != nil {
		return "BV" + m[1], true
	}

	if strings.HasPrefix(videoID, "BV") || strings.HasPrefix(videoID, "bv") {
		return "BV" + videoID[2:], true
	}

	return "", false
}

// demoRecord generates deterministic synthetic data for a URL.
func (c *Client) demoRecord(videoID, url string) *domain.VideoRecord {
	if bvid, ok := ExtractBVID(videoID, url); ok {
		videoID = bvid
	}

	seed := provider.Seed(url)

	views := 50000 + seed%500000
	likes := int64(float64(views) * (0.03 + float64(seed%100)/1000))
	comments := int64(float64(likes) * (0.1 + float64(seed%50)/1000))
	shares := comments / 2
	duration := 180 + seed%600 // 3-13 minutes

	return &domain.VideoRecord{
		Platform:    domain.PlatformBilibili,
		VideoID:     videoID,
		URL:         url,
		Title:       fmt.Sprintf("【演示数据】基于URL: %s... 的分析", urlTail(url)),
		Description: "这是演示数据。在实际部署中，我们会尝试获取真实的B站视频数据。如果API可用，您将看到真实的视频标题、描述、播放量等信息。",
		Thumbnail:   fmt.Sprintf("https://i0.hdslb.com/bfs/archive/sample-%s.jpg", videoID),
		Views:       views,
		Likes:       likes,
		Comments:    comments,
		Shares:      shares,
		Duration:    duration,
		PublishedAt: provider.PublishedDaysAgo(seed, 7),
		Author: &domain.Author{
			Name:      "演示UP主",
			Avatar:    "https://i1.hdslb.com/bfs/face/sample-avatar.jpg",
			Followers: 10000 + seed%100000,
		},
		Tags:    []string{"演示数据", "视频分析", "B站", "技术分享"},
		Success: true,
	}
}

// urlTail returns the last path segment truncated for display in demo titles.
func urlTail(url string) string {
	tail := url
	if idx := strings.LastIndex(tail, "/"); idx >= 0 {
		tail = tail[idx+1:]
	}
	if len(tail) > 19 {
		tail = tail[:19]
	}
	return tail
}
