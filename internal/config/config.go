package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// CompletedRemovalMode controls what removing an item from the completed
// view does. "local" is a pure client-side filter (the item reappears on
// the next full refresh); "remote" also deletes on the upstream service.
type CompletedRemovalMode string

const (
	CompletedRemovalLocal  CompletedRemovalMode = "local"
	CompletedRemovalRemote CompletedRemovalMode = "remote"
)

// Config holds application configuration
type Config struct {
	ServerPort           string               `yaml:"server_port"`
	UpstreamBaseURL      string               `yaml:"upstream_base_url"`
	FrontendURL          string               `yaml:"frontend_url"`
	RedisURL             string               `yaml:"redis_url"`
	RateLimit            string               `yaml:"rate_limit"`
	EnableHSTS           bool                 `yaml:"enable_hsts"`
	ServerDebugMode      bool                 `yaml:"server_debug_mode"`
	OTELEnabled          bool                 `yaml:"otel_enabled"`
	OTELEndpoint         string               `yaml:"otel_endpoint"`
	DefaultUserID        int                  `yaml:"default_user_id"`
	MetadataTimeout      time.Duration        `yaml:"metadata_timeout"`
	MetadataCacheTTL     time.Duration        `yaml:"metadata_cache_ttl"`
	EnrichDelay          time.Duration        `yaml:"enrich_delay"`
	RemoveDelay          time.Duration        `yaml:"remove_delay"`
	CompletedRemoval     CompletedRemovalMode `yaml:"completed_removal_mode"`
}

// Load builds configuration from an optional YAML file (AMATTA_CONFIG)
// overlaid with environment variables. Environment always wins.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:       "8080",
		UpstreamBaseURL:  "https://amatta-api.goalmate.site",
		FrontendURL:      "http://localhost:3000",
		RedisURL:         "redis://localhost:6379/0",
		RateLimit:        "5-S",
		DefaultUserID:    1,
		MetadataTimeout:  10 * time.Second,
		MetadataCacheTTL: 1 * time.Hour,
		EnrichDelay:      200 * time.Millisecond,
		RemoveDelay:      300 * time.Millisecond,
		CompletedRemoval: CompletedRemovalLocal,
	}

	if path := os.Getenv("AMATTA_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.UpstreamBaseURL = getEnv("UPSTREAM_BASE_URL", cfg.UpstreamBaseURL)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.RateLimit = getEnv("RATE_LIMIT", cfg.RateLimit)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", cfg.ServerDebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)
	cfg.DefaultUserID = getEnvInt("DEFAULT_USER_ID", cfg.DefaultUserID)
	cfg.MetadataTimeout = getEnvDuration("METADATA_TIMEOUT", cfg.MetadataTimeout)
	cfg.MetadataCacheTTL = getEnvDuration("METADATA_CACHE_TTL", cfg.MetadataCacheTTL)
	cfg.EnrichDelay = getEnvDuration("ENRICH_DELAY", cfg.EnrichDelay)
	cfg.RemoveDelay = getEnvDuration("REMOVE_DELAY", cfg.RemoveDelay)
	if v := getEnv("COMPLETED_REMOVAL_MODE", string(cfg.CompletedRemoval)); v != "" {
		cfg.CompletedRemoval = CompletedRemovalMode(v)
	}

	if cfg.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	switch cfg.CompletedRemoval {
	case CompletedRemovalLocal, CompletedRemovalRemote:
	default:
		return nil, fmt.Errorf("COMPLETED_REMOVAL_MODE must be 'local' or 'remote', got %q", cfg.CompletedRemoval)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
