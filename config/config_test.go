package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PRICING_CONFIG_BASE_URL": "http://config.internal",
		"PRICING_TAX_RATE":        "",
		"PRICING_SHIPPING_TTL":    "",
		"PRICING_TIERS_TTL":       "",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ConfigBaseURL != "http://config.internal" {
		t.Fatalf("unexpected base url %q", cfg.ConfigBaseURL)
	}
	if !cfg.TaxRate.Equal(decimal.NewFromFloat(0.15)) {
		t.Fatalf("expected default tax rate, got %s", cfg.TaxRate)
	}
	if cfg.ShippingTTL != 2*time.Minute {
		t.Fatalf("expected 2m shipping TTL, got %s", cfg.ShippingTTL)
	}
	if cfg.TiersTTL != 10*time.Minute {
		t.Fatalf("expected 10m tiers TTL, got %s", cfg.TiersTTL)
	}
	if cfg.FetchTimeout != 3*time.Second {
		t.Fatalf("expected 3s fetch timeout, got %s", cfg.FetchTimeout)
	}
}

func TestLoadRequiresBaseURL(t *testing.T) {
	if _, err := LoadForTests(map[string]string{"PRICING_CONFIG_BASE_URL": ""}); err == nil {
		t.Fatal("expected an error without PRICING_CONFIG_BASE_URL")
	}
}

func TestLoadCustomTaxRate(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PRICING_CONFIG_BASE_URL": "http://config.internal",
		"PRICING_TAX_RATE":        "0.0825",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.TaxRate.Equal(decimal.RequireFromString("0.0825")) {
		t.Fatalf("expected 0.0825, got %s", cfg.TaxRate)
	}
}

func TestLoadRejectsMalformedTaxRate(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"PRICING_CONFIG_BASE_URL": "http://config.internal",
		"PRICING_TAX_RATE":        "fifteen",
	})
	if err == nil {
		t.Fatal("expected an error for a malformed tax rate")
	}
}
