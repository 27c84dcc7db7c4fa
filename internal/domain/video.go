// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"time"
)

// Platform identifies a supported video platform.
type Platform string

const (
	PlatformYouTube     Platform = "youtube"
	PlatformBilibili    Platform = "bilibili"
	PlatformDouyin      Platform = "douyin"
	PlatformXiaohongshu Platform = "xiaohongshu"
	PlatformUnknown     Platform = "unknown"
)

// Author holds the creator info attached to a video.
type Author struct {
	Name      string `json:"name"`
	Avatar    string `json:"avatar,omitempty"`
	Followers int64  `json:"followers,omitempty"`
}

// VideoRecord is the normalized, platform-agnostic video metadata produced
// by a provider. Success=false means classification or every fetch strategy
// failed outright; a synthetic (demo) record still counts as Success=true.
type VideoRecord struct {
	Platform Platform `json:"platform"`
	VideoID  string   `json:"video_id"`
	URL      string   `json:"url"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`

	// Counts. Shares stays 0 for platforms that don't expose it.
	Views    int64 `json:"views,omitempty"`
	Likes    int64 `json:"likes,omitempty"`
	Comments int64 `json:"comments,omitempty"`
	Shares   int64 `json:"shares,omitempty"`

	// Duration in seconds.
	Duration    int64     `json:"duration,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`

	Author *Author  `json:"author,omitempty"`
	Tags   []string `json:"tags,omitempty"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NewFailedRecord builds a Success=false record carrying a user-safe reason.
func NewFailedRecord(platform Platform, videoID, url, reason string) *VideoRecord {
	return &VideoRecord{
		Platform: platform,
		VideoID:  videoID,
		URL:      url,
		Success:  false,
		Error:    reason,
	}
}

// EngagementRate returns (likes+comments+shares)/views as a percentage.
// Returns 0 when views is 0 so callers never divide by zero.
func (r *VideoRecord) EngagementRate() float64 {
	if r.Views == 0 {
		return 0
	}
	return float64(r.Likes+r.Comments+r.Shares) / float64(r.Views) * 100
}

// AuthorName returns the author name, or "" when no author is attached.
func (r *VideoRecord) AuthorName() string {
	if r.Author == nil {
		return ""
	}
	return r.Author.Name
}

// AuthorFollowers returns the author follower count, or 0 when absent.
func (r *VideoRecord) AuthorFollowers() int64 {
	if r.Author == nil {
		return 0
	}
	return r.Author.Followers
}
