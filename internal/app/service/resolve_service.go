// Package service provides application use cases.
package service

import (
	"context"

	"go.uber.org/zap"

	"video-analyzer-service/internal/domain"
)

// ResolveService turns raw video URLs into normalized records. It routes a
// classified URL to its platform provider and is the last line of defense:
// whatever happens below it, the caller always gets a record.
type ResolveService struct {
	providers map[domain.Platform]domain.Provider
	logger    *zap.Logger
}

// NewResolveService creates a new ResolveService from the registered
// providers.
func NewResolveService(providers []domain.Provider, logger *zap.Logger) *ResolveService {
	byPlatform := make(map[domain.Platform]domain.Provider, len(providers))
	for _, p := range providers {
		byPlatform[p.Platform()] = p
	}

	return &ResolveService{
		providers: byPlatform,
		logger:    logger,
	}
}

// Resolve classifies the URL and fetches its metadata. Unrecognized URLs and
// recognized-but-unregistered platforms come back as failed records; a
// provider panic is recovered into a failed record rather than surfacing.
func (s *ResolveService) Resolve(ctx context.Context, url string) (rec *domain.VideoRecord) {
	ref, ok := domain.Classify(url)
	if !ok {
		s.logger.Debug("url not classified",
			zap.String("url", url),
		)
		return domain.NewFailedRecord(domain.PlatformUnknown, "", url, "unsupported link format")
	}

	provider, ok := s.providers[ref.Platform]
	if !ok {
		s.logger.Warn("no provider registered for platform",
			zap.String("platform", string(ref.Platform)),
		)
		return domain.NewFailedRecord(ref.Platform, ref.VideoID, url, "platform not yet supported")
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("provider panicked",
				zap.String("platform", string(ref.Platform)),
				zap.Any("panic", r),
			)
			rec = domain.NewFailedRecord(ref.Platform, ref.VideoID, url, "fetch failed, try again later")
		}
	}()

	s.logger.Debug("resolving video",
		zap.String("platform", string(ref.Platform)),
		zap.String("video_id", ref.VideoID),
	)

	return provider.Fetch(ctx, ref.VideoID, url)
}
