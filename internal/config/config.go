// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Provider     ProviderConfig     `mapstructure:"provider"`
	AI           AIConfig           `mapstructure:"ai"`
	Logger       LoggerConfig       `mapstructure:"logger"`
	Sentry       SentryConfig       `mapstructure:"sentry"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Cache        CacheConfig        `mapstructure:"cache"`
	SingleFlight SingleFlightConfig `mapstructure:"single_flight"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// ProviderConfig holds platform provider settings. Douyin and Xiaohongshu
// have no public APIs and therefore no endpoint configuration.
type ProviderConfig struct {
	YouTube  YouTubeConfig    `mapstructure:"youtube"`
	Bilibili ProviderEndpoint `mapstructure:"bilibili"`
}

// YouTubeConfig holds YouTube Data API settings. An empty APIKey puts the
// provider in demo-data mode.
type YouTubeConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ProviderEndpoint holds a single HTTP provider's configuration.
type ProviderEndpoint struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Retry     RetryConfig   `mapstructure:"retry"`
	CB        CBConfig      `mapstructure:"circuit_breaker"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// AIConfig holds analysis backend settings. Backend selects between the
// DeepSeek chat API and Gemini; either backend without a key means the
// heuristic analyzer answers everything.
type AIConfig struct {
	Backend  string         `mapstructure:"backend"` // deepseek, gemini
	DeepSeek DeepSeekConfig `mapstructure:"deepseek"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
}

// DeepSeekConfig holds DeepSeek chat-completions settings.
type DeepSeekConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Retry       RetryConfig   `mapstructure:"retry"`
	CB          CBConfig      `mapstructure:"circuit_breaker"`
}

// GeminiConfig holds Gemini settings.
type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for response caching and
// distributed locking.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds analysis response caching settings.
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	AnalysisTTL time.Duration `mapstructure:"analysis_ttl"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
}

// SingleFlightConfig holds per-URL distributed locking settings. When
// enabled, concurrent analyses of the same URL are serialized across
// instances.
type SingleFlightConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Expiry  time.Duration `mapstructure:"expiry"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	// Environment variable settings
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "video-analyzer-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)

	// YouTube defaults
	v.SetDefault("provider.youtube.api_key", "")
	v.SetDefault("provider.youtube.timeout", "10s")

	// Bilibili defaults
	v.SetDefault("provider.bilibili.base_url", "https://api.bilibili.com")
	v.SetDefault("provider.bilibili.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("provider.bilibili.timeout", "10s")
	v.SetDefault("provider.bilibili.retry.max_attempts", 3)
	v.SetDefault("provider.bilibili.retry.wait_time", "1s")
	v.SetDefault("provider.bilibili.retry.max_wait_time", "5s")
	v.SetDefault("provider.bilibili.circuit_breaker.max_requests", 3)
	v.SetDefault("provider.bilibili.circuit_breaker.interval", "60s")
	v.SetDefault("provider.bilibili.circuit_breaker.timeout", "30s")
	v.SetDefault("provider.bilibili.circuit_breaker.failure_ratio", 0.5)

	// AI defaults
	v.SetDefault("ai.backend", "deepseek")
	v.SetDefault("ai.deepseek.api_key", "")
	v.SetDefault("ai.deepseek.base_url", "https://api.deepseek.com")
	v.SetDefault("ai.deepseek.model", "deepseek-chat")
	v.SetDefault("ai.deepseek.temperature", 0.3)
	v.SetDefault("ai.deepseek.max_tokens", 2000)
	v.SetDefault("ai.deepseek.timeout", "30s")
	v.SetDefault("ai.deepseek.retry.max_attempts", 2)
	v.SetDefault("ai.deepseek.retry.wait_time", "1s")
	v.SetDefault("ai.deepseek.retry.max_wait_time", "5s")
	v.SetDefault("ai.deepseek.circuit_breaker.max_requests", 3)
	v.SetDefault("ai.deepseek.circuit_breaker.interval", "60s")
	v.SetDefault("ai.deepseek.circuit_breaker.timeout", "30s")
	v.SetDefault("ai.deepseek.circuit_breaker.failure_ratio", 0.5)
	v.SetDefault("ai.gemini.api_key", "")
	v.SetDefault("ai.gemini.model", "gemini-1.5-flash")
	v.SetDefault("ai.gemini.timeout", "30s")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.analysis_ttl", "15m")
	v.SetDefault("cache.key_prefix", "video-analyzer")

	// Single-flight defaults
	v.SetDefault("single_flight.enabled", false)
	v.SetDefault("single_flight.expiry", "30s")
}
