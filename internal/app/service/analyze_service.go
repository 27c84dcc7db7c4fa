package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"video-analyzer-service/internal/domain"
	infraredis "video-analyzer-service/internal/infra/redis"
	"video-analyzer-service/pkg/locker"
)

// Envelope is the full analysis response for one URL. Video fields are
// flattened to the top level for client convenience, and counts travel as
// strings so large values survive lossy JSON number handling.
type Envelope struct {
	ID          string         `json:"id"`
	Platform    string         `json:"platform"`
	VideoID     string         `json:"videoId"`
	URL         string         `json:"url"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Thumbnail   string         `json:"thumbnail,omitempty"`
	Views       string         `json:"views"`
	Likes       string         `json:"likes"`
	Comments    string         `json:"comments"`
	Shares      string         `json:"shares"`
	Duration    int64          `json:"duration"`
	PublishedAt time.Time      `json:"publishedAt"`
	Author      *domain.Author `json:"author,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Success     bool           `json:"success"`

	// AIAnalysis and Suggestions hold the structured analysis on success and
	// plain remediation text when the analyzer is entirely unavailable.
	AIAnalysis  any       `json:"aiAnalysis"`
	Suggestions any       `json:"suggestions"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Options toggles the optional cache and single-flight behavior of the
// analyze use case. The zero value disables both.
type Options struct {
	Cache              domain.Cache
	CacheTTL           time.Duration
	Locker             locker.DistributedLocker
	SingleFlightExpiry time.Duration
}

// AnalyzeService is the analysis façade: resolve, analyze, assemble.
type AnalyzeService struct {
	resolver *ResolveService
	analyzer domain.Analyzer
	opts     Options
	logger   *zap.Logger

	now func() time.Time
}

// NewAnalyzeService creates a new AnalyzeService.
func NewAnalyzeService(resolver *ResolveService, analyzer domain.Analyzer, opts Options, logger *zap.Logger) *AnalyzeService {
	return &AnalyzeService{
		resolver: resolver,
		analyzer: analyzer,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Analyze runs the full pipeline for one URL. A failed resolution
// short-circuits with the record's reason and the analyzer is never invoked.
// A nil analyzer result, or an analyzer panic, degrades to a notice envelope
// with score 0 instead of failing the request.
func (s *AnalyzeService) Analyze(ctx context.Context, url string) (*Envelope, error) {
	if envelope := s.cachedEnvelope(ctx, url); envelope != nil {
		return envelope, nil
	}

	release, err := s.acquireSlot(ctx, url)
	if err != nil {
		return nil, err
	}
	defer release()

	// A concurrent request may have filled the cache while we waited.
	if envelope := s.cachedEnvelope(ctx, url); envelope != nil {
		return envelope, nil
	}

	rec := s.resolver.Resolve(ctx, url)
	if !rec.Success {
		s.logger.Info("resolution failed",
			zap.String("url", url),
			zap.String("reason", rec.Error),
		)
		return nil, &ResolutionError{Reason: rec.Error}
	}

	s.logger.Info("video resolved",
		zap.String("platform", string(rec.Platform)),
		zap.String("video_id", rec.VideoID),
		zap.Int64("views", rec.Views),
	)

	result := s.runAnalyzer(ctx, rec)

	envelope := buildEnvelope(rec, result, s.now())
	s.storeEnvelope(ctx, url, envelope)

	return envelope, nil
}

// runAnalyzer invokes the analyzer with the same panic guard Resolve gives
// providers: a panicking backend degrades to the notice envelope instead of
// failing a request whose resolution already succeeded.
func (s *AnalyzeService) runAnalyzer(ctx context.Context, rec *domain.VideoRecord) (result *domain.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("analyzer panicked",
				zap.String("platform", string(rec.Platform)),
				zap.Any("panic", r),
			)
			result = nil
		}
	}()

	return s.analyzer.Analyze(ctx, rec)
}

// ResolutionError reports why a URL could not be turned into a video record.
type ResolutionError struct {
	Reason string
}

func (e *ResolutionError) Error() string {
	return e.Reason
}

func buildEnvelope(rec *domain.VideoRecord, result *domain.AnalysisResult, now time.Time) *Envelope {
	envelope := &Envelope{
		ID:          fmt.Sprintf("analysis-%d", now.UnixMilli()),
		Platform:    string(rec.Platform),
		VideoID:     rec.VideoID,
		URL:         rec.URL,
		Title:       rec.Title,
		Description: rec.Description,
		Thumbnail:   rec.Thumbnail,
		Views:       strconv.FormatInt(rec.Views, 10),
		Likes:       strconv.FormatInt(rec.Likes, 10),
		Comments:    strconv.FormatInt(rec.Comments, 10),
		Shares:      strconv.FormatInt(rec.Shares, 10),
		Duration:    rec.Duration,
		PublishedAt: rec.PublishedAt,
		Author:      rec.Author,
		Tags:        rec.Tags,
		Success:     rec.Success,
		CreatedAt:   now,
	}

	if result == nil {
		envelope.AIAnalysis = "暂时无法获取AI分析，请稍后重试"
		envelope.Suggestions = []string{"检查网络连接", "确认API密钥配置正确"}
		envelope.Score = 0
		return envelope
	}

	envelope.AIAnalysis = result.Analysis
	envelope.Suggestions = result.Suggestions
	envelope.Score = result.Score

	return envelope
}

// cachedEnvelope returns the cached envelope for the URL, or nil. Cache
// errors are logged and treated as misses.
func (s *AnalyzeService) cachedEnvelope(ctx context.Context, url string) *Envelope {
	if s.opts.Cache == nil {
		return nil
	}

	data, err := s.opts.Cache.Get(ctx, infraredis.AnalysisKey(url))
	if err != nil || data == nil {
		return nil
	}

	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		s.logger.Warn("cached envelope not decodable, ignoring",
			zap.Error(err),
		)
		return nil
	}

	s.logger.Debug("analysis served from cache",
		zap.String("url", url),
	)

	return &envelope
}

func (s *AnalyzeService) storeEnvelope(ctx context.Context, url string, envelope *Envelope) {
	if s.opts.Cache == nil {
		return
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return
	}
	if err := s.opts.Cache.Set(ctx, infraredis.AnalysisKey(url), data, s.opts.CacheTTL); err != nil {
		s.logger.Warn("caching analysis failed",
			zap.Error(err),
		)
	}
}

// acquireSlot serializes concurrent analyses of the same URL when a locker
// is configured. Waiting is a short poll loop bounded by the lock expiry;
// on contention timeout the analysis proceeds anyway rather than failing.
func (s *AnalyzeService) acquireSlot(ctx context.Context, url string) (func(), error) {
	if s.opts.Locker == nil {
		return func() {}, nil
	}

	key := "analyze:" + infraredis.AnalysisKey(url)
	deadline := time.Now().Add(s.opts.SingleFlightExpiry)

	for {
		acquired, err := s.opts.Locker.Acquire(ctx, key, s.opts.SingleFlightExpiry)
		if err != nil {
			return nil, fmt.Errorf("acquire analysis slot: %w", err)
		}
		if acquired {
			return func() {
				if err := s.opts.Locker.Release(context.WithoutCancel(ctx), key); err != nil {
					s.logger.Warn("releasing analysis slot failed",
						zap.Error(err),
					)
				}
			}, nil
		}

		if time.Now().After(deadline) {
			s.logger.Warn("analysis slot contention timeout, proceeding",
				zap.String("url", url),
			)
			return func() {}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}
