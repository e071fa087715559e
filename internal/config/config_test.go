package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 5*time.Minute, cfg.FeedCacheTTL)
	assert.Equal(t, "data", cfg.StoreDir)
	assert.Equal(t, "8080", cfg.MonitoringPort)
	assert.False(t, cfg.RunOnce)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")
	t.Setenv("RETRY_ATTEMPTS", "5")
	t.Setenv("FEED_CACHE_TTL_MINUTES", "10")
	t.Setenv("STORE_DIR", "/tmp/newsmobile")
	t.Setenv("RUN_ONCE", "true")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.Equal(t, 10*time.Minute, cfg.FeedCacheTTL)
	assert.Equal(t, "/tmp/newsmobile", cfg.StoreDir)
	assert.True(t, cfg.RunOnce)
	assert.True(t, cfg.Debug)
}

func TestValidateRequiresChatIDWithToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "-100123", cfg.TelegramChatID)
}

func TestMalformedNumbersKeepDefaults(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("RETRY_ATTEMPTS", "-2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.RetryAttempts)
}
