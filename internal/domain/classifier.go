package domain

import (
	"regexp"
	"strings"
)

// VideoRef is the result of classifying a raw URL: which platform it belongs
// to and the platform-native video identifier embedded in it.
type VideoRef struct {
	Platform Platform
	VideoID  string
}

// Pattern order matters: YouTube first, then Douyin, Bilibili, Xiaohongshu.
var (
	youtubeRe     = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	douyinRe      = regexp.MustCompile(`douyin\.com/video/|v\.douyin\.com/[A-Za-z0-9]+`)
	bilibiliRe    = regexp.MustCompile(`bilibili\.com/video/(av\d+|BV[A-Za-z0-9]+)`)
	xiaohongshuRe = regexp.MustCompile(`xiaohongshu\.com/(?:explore/|discovery/item/)([A-Za-z0-9]+)`)
)

// Classify parses a raw URL string into a VideoRef. The second return value
// is false when no known platform pattern matches; that is a normal outcome,
// not a fault. Pure string matching, no network access.
func Classify(url string) (VideoRef, bool) {
	if m := youtubeRe.FindStringSubmatch(url); m != nil {
		return VideoRef{Platform: PlatformYouTube, VideoID: m[1]}, true
	}

	if douyinRe.MatchString(url) {
		return VideoRef{Platform: PlatformDouyin, VideoID: lastPathSegment(url)}, true
	}

	if m := bilibiliRe.FindStringSubmatch(url); m != nil {
		// The matched token is returned verbatim (av123 or BVxxxx).
		return VideoRef{Platform: PlatformBilibili, VideoID: m[1]}, true
	}

	if m := xiaohongshuRe.FindStringSubmatch(url); m != nil {
		return VideoRef{Platform: PlatformXiaohongshu, VideoID: m[1]}, true
	}

	return VideoRef{}, false
}

// lastPathSegment returns the final path segment of a URL with any query
// string stripped. Used for short-link style IDs (douyin).
func lastPathSegment(url string) string {
	seg := url
	if idx := strings.LastIndex(seg, "/"); idx >= 0 {
		seg = seg[idx+1:]
	}
	if idx := strings.Index(seg, "?"); idx >= 0 {
		seg = seg[:idx]
	}
	return seg
}
