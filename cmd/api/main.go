// Package main is the entry point for the video-analyzer-service API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"video-analyzer-service/internal/app/service"
	"video-analyzer-service/internal/config"
	"video-analyzer-service/internal/domain"
	"video-analyzer-service/internal/infra/ai/deepseek"
	"video-analyzer-service/internal/infra/ai/gemini"
	"video-analyzer-service/internal/infra/provider"
	"video-analyzer-service/internal/infra/provider/registry"
	rediscache "video-analyzer-service/internal/infra/redis"
	"video-analyzer-service/internal/logger"
	"video-analyzer-service/internal/transport/httpserver"
	"video-analyzer-service/internal/validator"
	"video-analyzer-service/pkg/locker"
)

func main() {
	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting video-analyzer-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Create platform providers
	providers := registry.NewProviders(cfg.Provider, log.Logger)

	// Create AI analyzer backend
	analyzer := newAnalyzer(cfg.AI, log.Logger)

	// Redis is only needed when caching or single-flight is enabled
	var redisClient *redis.Client
	opts := service.Options{}

	if cfg.Cache.Enabled || cfg.SingleFlight.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("connected to Redis",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)

		if cfg.Cache.Enabled {
			opts.Cache = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
			opts.CacheTTL = cfg.Cache.AnalysisTTL
			log.Info("analysis cache enabled",
				zap.Duration("ttl", cfg.Cache.AnalysisTTL),
				zap.String("key_prefix", cfg.Cache.KeyPrefix),
			)
		}

		if cfg.SingleFlight.Enabled {
			opts.Locker = locker.NewRedisLocker(redisClient, log.Logger)
			opts.SingleFlightExpiry = cfg.SingleFlight.Expiry
			log.Info("per-url single-flight enabled",
				zap.Duration("expiry", cfg.SingleFlight.Expiry),
			)
		}
	}

	// Create services
	resolveSvc := service.NewResolveService(providers, log.Logger)
	analyzeSvc := service.NewAnalyzeService(resolveSvc, analyzer, opts, log.Logger)

	// Create validator
	v := validator.New()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:      cfg.App.Port,
			BodyLimit: 1024 * 1024, // 1MB
			Debug:     cfg.App.Debug,
		},
		analyzeSvc,
		redisClient,
		v,
		log.Logger,
	)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

// newAnalyzer selects the configured AI backend. Either backend without an
// API key still works: it answers from the built-in heuristic.
func newAnalyzer(cfg config.AIConfig, log *zap.Logger) domain.Analyzer {
	switch cfg.Backend {
	case "gemini":
		log.Info("using gemini analysis backend", zap.String("model", cfg.Gemini.Model))
		return gemini.New(context.Background(), gemini.Config{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		}, log)
	default:
		log.Info("using deepseek analysis backend", zap.String("model", cfg.DeepSeek.Model))
		return deepseek.New(deepseek.Config{
			APIKey:      cfg.DeepSeek.APIKey,
			Model:       cfg.DeepSeek.Model,
			Temperature: cfg.DeepSeek.Temperature,
			MaxTokens:   cfg.DeepSeek.MaxTokens,
			Client: provider.ClientConfig{
				BaseURL: cfg.DeepSeek.BaseURL,
				Timeout: cfg.DeepSeek.Timeout,
				Retry: provider.RetryConfig{
					MaxAttempts: cfg.DeepSeek.Retry.MaxAttempts,
					WaitTime:    cfg.DeepSeek.Retry.WaitTime,
					MaxWaitTime: cfg.DeepSeek.Retry.MaxWaitTime,
				},
				CB: provider.CBConfig{
					MaxRequests:  cfg.DeepSeek.CB.MaxRequests,
					Interval:     cfg.DeepSeek.CB.Interval,
					Timeout:      cfg.DeepSeek.CB.Timeout,
					FailureRatio: cfg.DeepSeek.CB.FailureRatio,
				},
			},
		}, log)
	}
}
