package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_DIR", "LOG_LEVEL", "LEDGER_SEED", "LEDGER_TIMEZONE",
		"ADVICE_API_KEY", "ADVICE_MODEL", "ADVICE_TIMEOUT", "ADVICE_RATE_LIMIT", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.True(t, cfg.SeedLedger)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "gemini-3-flash-preview", cfg.AdviceModel)
	assert.Equal(t, 60*time.Second, cfg.AdviceTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.AdviceEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LEDGER_SEED", "false")
	t.Setenv("LEDGER_TIMEZONE", "Asia/Kolkata")
	t.Setenv("ADVICE_API_KEY", "secret")
	t.Setenv("ADVICE_TIMEOUT", "15s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.SeedLedger)
	assert.True(t, cfg.AdviceEnabled())
	assert.Equal(t, 15*time.Second, cfg.AdviceTimeout)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("ADVICE_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADVICE_TIMEOUT")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Port:            "0",
		DataDir:         " ",
		Timezone:        "Mars/Olympus",
		AdviceTimeout:   time.Millisecond,
		ShutdownTimeout: 0,
		AdviceRateLimit: "often",
	}

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{"invalid port", "data directory", "timezone", "advice timeout", "shutdown timeout", "rate limit"} {
		assert.True(t, strings.Contains(msg, want), want)
	}

	assert.Equal(t, time.UTC, cfg.Location())
}
