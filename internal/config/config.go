// Package config loads process-level configuration from the environment.
// User-facing options (filter flags, alerts, custom feeds) are persisted
// settings and live in internal/settings instead.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Source catalog
	SourcesConfigPath string // optional YAML override of the built-in catalog

	// Fetching
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	FeedCacheTTL   time.Duration

	// Persistence
	StoreDir    string // directory for the JSON file store
	PostgresDSN string // when set, the Postgres store is used instead

	// Notifications (Telegram boundary)
	TelegramToken  string
	TelegramChatID string

	// Monitoring
	EnableMonitoring bool
	MonitoringPort   string

	// App
	Debug   bool
	RunOnce bool // single refresh instead of the interval loop
}

func Load() (*Config, error) {
	cfg := &Config{
		RequestTimeout: 15 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     2 * time.Second,
		FeedCacheTTL:   5 * time.Minute,
		StoreDir:       "data",
		MonitoringPort: "8080",
	}

	cfg.SourcesConfigPath = os.Getenv("SOURCES_CONFIG_PATH")
	cfg.StoreDir = getEnvOrDefault("STORE_DIR", cfg.StoreDir)
	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	cfg.MonitoringPort = getEnvOrDefault("MONITORING_PORT", cfg.MonitoringPort)

	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RequestTimeout = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("RETRY_ATTEMPTS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RetryAttempts = val
		}
	}
	if v := os.Getenv("RETRY_DELAY_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RetryDelay = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("FEED_CACHE_TTL_MINUTES"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.FeedCacheTTL = time.Duration(val) * time.Minute
		}
	}

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		cfg.EnableMonitoring = true
	}
	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}
	if os.Getenv("RUN_ONCE") == "true" {
		cfg.RunOnce = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.TelegramToken != "" && c.TelegramChatID == "" {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	return nil
}
