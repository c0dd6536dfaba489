package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/storefront-pricing/pricing"
)

// Config holds pricing-core configuration loaded from the environment.
type Config struct {
	AppEnv        string
	ConfigBaseURL string
	RedisURL      string
	TaxRate       decimal.Decimal
	ShippingTTL   time.Duration
	TiersTTL      time.Duration
	StoreTTL      time.Duration
	FetchTimeout  time.Duration
	LogFormat     string
	LogLevel      string
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	taxRate, err := parseRate(k.String("PRICING_TAX_RATE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:        valueOrDefault(k.String("APP_ENV"), "development"),
		ConfigBaseURL: strings.TrimSpace(k.String("PRICING_CONFIG_BASE_URL")),
		RedisURL:      strings.TrimSpace(k.String("PRICING_REDIS_URL")),
		TaxRate:       taxRate,
		ShippingTTL:   parseDuration(k.String("PRICING_SHIPPING_TTL"), "2m"),
		TiersTTL:      parseDuration(k.String("PRICING_TIERS_TTL"), "10m"),
		StoreTTL:      parseDuration(k.String("PRICING_STORE_TTL"), "24h"),
		FetchTimeout:  parseDuration(k.String("PRICING_FETCH_TIMEOUT"), "3s"),
		LogFormat:     valueOrDefault(k.String("LOG_FORMAT"), "json"),
		LogLevel:      valueOrDefault(k.String("LOG_LEVEL"), "info"),
	}

	if cfg.ConfigBaseURL == "" {
		return nil, errors.New("PRICING_CONFIG_BASE_URL is required")
	}

	return cfg, nil
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseRate(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return pricing.DefaultTaxRate(), nil
	}
	rate, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("PRICING_TAX_RATE: %w", err)
	}
	if rate.IsNegative() {
		return decimal.Zero, errors.New("PRICING_TAX_RATE must not be negative")
	}
	return rate, nil
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
