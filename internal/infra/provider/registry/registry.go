package registry

import (
	"video-analyzer-service/internal/config"
	"video-analyzer-service/internal/domain"
	"video-analyzer-service/internal/infra/provider"
	"video-analyzer-service/internal/infra/provider/bilibili"
	"video-analyzer-service/internal/infra/provider/douyin"
	"video-analyzer-service/internal/infra/provider/xiaohongshu"
	"video-analyzer-service/internal/infra/provider/youtube"

	"go.uber.org/zap"
)

// NewProviders creates all platform provider clients.
// This is a factory function that centralizes provider initialization
// while maintaining dependency injection principles.
//
// Parameters:
//   - cfg: Provider configuration containing API keys, endpoints, timeouts, retry, and circuit breaker settings
//   - logger: Zap logger instance for structured logging
//
// Returns a slice of domain.Provider instances ready for use in services.
func NewProviders(cfg config.ProviderConfig, logger *zap.Logger) []domain.Provider {
	providers := make([]domain.Provider, 0, 4)

	// YouTube
	yt := youtube.New(
		youtube.Config{
			APIKey:  cfg.YouTube.APIKey,
			Timeout: cfg.YouTube.Timeout,
		},
		logger,
	)
	providers = append(providers, yt)

	// Bilibili
	bili := bilibili.New(
		provider.ClientConfig{
			BaseURL:   cfg.Bilibili.BaseURL,
			UserAgent: cfg.Bilibili.UserAgent,
			Timeout:   cfg.Bilibili.Timeout,
			Retry: provider.RetryConfig{
				MaxAttempts: cfg.Bilibili.Retry.MaxAttempts,
				WaitTime:    cfg.Bilibili.Retry.WaitTime,
				MaxWaitTime: cfg.Bilibili.Retry.MaxWaitTime,
			},
			CB: provider.CBConfig{
				MaxRequests:  cfg.Bilibili.CB.MaxRequests,
				Interval:     cfg.Bilibili.CB.Interval,
				Timeout:      cfg.Bilibili.CB.Timeout,
				FailureRatio: cfg.Bilibili.CB.FailureRatio,
			},
		},
		logger,
	)
	providers = append(providers, bili)

	// Douyin and Xiaohongshu serve demo data only, no endpoint config.
	providers = append(providers, douyin.New(logger))
	providers = append(providers, xiaohongshu.New(logger))

	return providers
}
