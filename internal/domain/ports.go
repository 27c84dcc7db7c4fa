package domain

import (
	"context"
	"time"
)

// Provider defines the interface for platform-specific video metadata
// integrations.
// Implementations: internal/infra/provider/{youtube,bilibili,douyin,xiaohongshu}
type Provider interface {
	// Platform returns the platform this provider serves.
	Platform() Platform

	// Fetch turns a classified video reference into a normalized VideoRecord.
	// It never returns an error: failures collapse internally into either a
	// synthetic (demo) record with Success=true or a Success=false record
	// carrying a platform-specific reason.
	Fetch(ctx context.Context, videoID, url string) *VideoRecord
}

// Analyzer produces an AI content-quality evaluation for a video.
// Implementations: internal/infra/ai/deepseek, internal/infra/ai/gemini
type Analyzer interface {
	// Analyze evaluates the record. Implementations must not fail: on any
	// upstream or parse error they fall back to HeuristicAnalysis.
	Analyze(ctx context.Context, rec *VideoRecord) *AnalysisResult
}

// Cache defines the interface for caching serialized analysis envelopes.
// Implementations: internal/infra/redis (optional)
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error
}
