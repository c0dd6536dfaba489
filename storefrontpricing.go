// Package storefrontpricing assembles the order pricing core: the
// configuration cache over the remote backend, the seven-stage pricing
// pipeline, and the admin surface. UI and checkout call sites construct a
// Core once and share it; every total they display or submit comes from the
// same pipeline.
package storefrontpricing

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-pricing/admin"
	"github.com/noah-isme/storefront-pricing/config"
	"github.com/noah-isme/storefront-pricing/obs"
	"github.com/noah-isme/storefront-pricing/pricing"
	"github.com/noah-isme/storefront-pricing/shopconfig"
)

// Core bundles the constructed pricing components.
type Core struct {
	Pipeline *pricing.Pipeline
	Cache    *shopconfig.Cache
	Admin    *admin.Handler
	Logger   zerolog.Logger
}

// New wires the pricing core from environment configuration. Redis is
// optional: without PRICING_REDIS_URL configuration entries live only in
// process memory.
func New(cfg *config.Config, reg prometheus.Registerer) (*Core, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)
	obs.MustRegisterPricingMetrics("storefront", reg)

	var store shopconfig.Store
	var pinger admin.Pinger
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rs := &shopconfig.RedisStore{Client: redis.NewClient(opts), TTL: cfg.StoreTTL}
		store = rs
		pinger = rs
	}

	cache := shopconfig.NewCache(shopconfig.CacheConfig{
		Source:      shopconfig.NewHTTPSource(cfg.ConfigBaseURL, cfg.FetchTimeout),
		Store:       store,
		Logger:      logger,
		TaxRate:     cfg.TaxRate,
		ShippingTTL: cfg.ShippingTTL,
		TiersTTL:    cfg.TiersTTL,
	})

	return &Core{
		Pipeline: &pricing.Pipeline{Config: cache, Logger: logger},
		Cache:    cache,
		Admin:    &admin.Handler{Cache: cache, Store: pinger, Logger: logger},
		Logger:   logger,
	}, nil
}
