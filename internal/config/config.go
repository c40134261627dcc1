// Package config loads service configuration from the environment and an optional .env file
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

// Config holds application configuration
type Config struct {
	Port            string
	DataDir         string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Ledger
	SeedLedger bool
	Timezone   string

	// Advice service
	AdviceAPIKey    string
	AdviceBaseURL   string
	AdviceModel     string
	AdviceTimeout   time.Duration
	AdviceRateLimit string
}

// Load reads configuration from environment variables and a .env file if present.
// Real environment variables take precedence over .env values.
func Load() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("LEDGER_SEED", true)
	v.SetDefault("LEDGER_TIMEZONE", "UTC")
	v.SetDefault("ADVICE_API_KEY", "")
	v.SetDefault("ADVICE_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai")
	v.SetDefault("ADVICE_MODEL", "gemini-3-flash-preview")
	v.SetDefault("ADVICE_TIMEOUT", "60s")
	v.SetDefault("ADVICE_RATE_LIMIT", "30-M")
	v.AutomaticEnv()

	cfg := &Config{
		Port:            v.GetString("PORT"),
		DataDir:         v.GetString("DATA_DIR"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		SeedLedger:      v.GetBool("LEDGER_SEED"),
		Timezone:        v.GetString("LEDGER_TIMEZONE"),
		AdviceAPIKey:    v.GetString("ADVICE_API_KEY"),
		AdviceBaseURL:   v.GetString("ADVICE_BASE_URL"),
		AdviceModel:     v.GetString("ADVICE_MODEL"),
		AdviceRateLimit: v.GetString("ADVICE_RATE_LIMIT"),
	}

	var err error
	if cfg.ShutdownTimeout, err = parseDuration(v, "SHUTDOWN_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.AdviceTimeout, err = parseDuration(v, "ADVICE_TIMEOUT"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.DataDir) == "" {
		errors = append(errors, "data directory cannot be empty")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid ledger timezone '%s': %v", c.Timezone, err))
	}

	if c.AdviceTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid advice timeout %v: must be at least 1 second", c.AdviceTimeout))
	}

	if c.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if _, err := limiter.NewRateFromFormatted(c.AdviceRateLimit); err != nil {
		errors = append(errors, fmt.Sprintf("invalid advice rate limit '%s': %v", c.AdviceRateLimit, err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location returns the time zone in which ledger dates are evaluated
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AdviceEnabled reports whether an advice service credential is configured
func (c *Config) AdviceEnabled() bool {
	return c.AdviceAPIKey != ""
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s ('%s'): %w", key, raw, err)
	}
	return d, nil
}
