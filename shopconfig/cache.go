package shopconfig

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/storefront-pricing/obs"
	"github.com/noah-isme/storefront-pricing/pricing"
)

// ErrUnknownKind is returned for a kind the cache does not manage.
var ErrUnknownKind = errors.New("shopconfig: unknown configuration kind")

var _ pricing.ConfigProvider = (*Cache)(nil)

// Default TTLs. Shipping changes are rare and low-stakes; tiers carry a
// longer TTL because the version probe catches changes early.
const (
	DefaultShippingTTL = 2 * time.Minute
	DefaultTiersTTL    = 10 * time.Minute

	defaultKeyPrefix = "pricing:config:"
)

// persistedEntry is the JSON blob written to the scoped store so an entry
// survives a session reload without a refetch.
type persistedEntry struct {
	Value     json.RawMessage `json:"value"`
	Timestamp int64           `json:"timestamp"`
	Version   *int64          `json:"version,omitempty"`
}

type shippingEntry struct {
	value     pricing.ShippingPolicy
	fetchedAt time.Time
}

type tiersEntry struct {
	value     pricing.TierSet
	fetchedAt time.Time
	version   int64
}

// CacheConfig groups Cache dependencies.
type CacheConfig struct {
	Source Source
	Store  Store
	Logger zerolog.Logger
	// TaxRate is a fraction (0.15 for 15%). There is no remote tax
	// endpoint; the rate is effectively static with override capability.
	TaxRate     decimal.Decimal
	ShippingTTL time.Duration
	TiersTTL    time.Duration
	KeyPrefix   string
	Now         func() time.Time
}

// Cache memoizes each configuration kind with a TTL, persists entries in
// the scoped store, and falls back to last-known-good or hardcoded defaults
// when the source fails. Concurrent readers of an expired kind share a
// single in-flight fetch; the last writer wins, which is fine for
// read-mostly eventually-consistent configuration.
type Cache struct {
	source      Source
	store       Store
	logger      zerolog.Logger
	taxRate     decimal.Decimal
	shippingTTL time.Duration
	tiersTTL    time.Duration
	keyPrefix   string
	now         func() time.Time

	mu       sync.RWMutex
	shipping *shippingEntry
	tiers    *tiersEntry
	group    singleflight.Group
}

// NewCache constructs a Cache, applying defaults for unset options.
func NewCache(cfg CacheConfig) *Cache {
	c := &Cache{
		source:      cfg.Source,
		store:       cfg.Store,
		logger:      cfg.Logger,
		taxRate:     cfg.TaxRate,
		shippingTTL: cfg.ShippingTTL,
		tiersTTL:    cfg.TiersTTL,
		keyPrefix:   cfg.KeyPrefix,
		now:         cfg.Now,
	}
	if c.store == nil {
		c.store = NewMemoryStore()
	}
	if c.taxRate.IsZero() {
		c.taxRate = pricing.DefaultTaxRate()
	}
	if c.shippingTTL <= 0 {
		c.shippingTTL = DefaultShippingTTL
	}
	if c.tiersTTL <= 0 {
		c.tiersTTL = DefaultTiersTTL
	}
	if c.keyPrefix == "" {
		c.keyPrefix = defaultKeyPrefix
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// TaxRate returns the configured tax rate as a fraction.
func (c *Cache) TaxRate() decimal.Decimal {
	if c == nil {
		return pricing.DefaultTaxRate()
	}
	return c.taxRate
}

// Shipping returns the shipping policy: memory if unexpired, else the
// persisted copy, else a fresh fetch. A failed fetch is never cached and
// never propagated; the caller receives last-known-good or the default.
func (c *Cache) Shipping(ctx context.Context) pricing.ShippingPolicy {
	if c == nil {
		return pricing.DefaultShippingPolicy()
	}
	now := c.now()

	c.mu.RLock()
	entry := c.shipping
	c.mu.RUnlock()

	if entry != nil && now.Sub(entry.fetchedAt) < c.shippingTTL {
		cacheHit(KindShipping, "memory")
		return entry.value
	}

	if entry == nil {
		if loaded := c.loadPersistedShipping(ctx); loaded != nil {
			c.mu.Lock()
			c.shipping = loaded
			c.mu.Unlock()
			if now.Sub(loaded.fetchedAt) < c.shippingTTL {
				cacheHit(KindShipping, "store")
				return loaded.value
			}
			entry = loaded
		}
	}

	cacheMiss(KindShipping)
	fetched, err, _ := c.group.Do(string(KindShipping), func() (any, error) {
		if c.source == nil {
			return nil, errors.New("no configuration source")
		}
		wire, err := c.source.ShippingConfig(ctx)
		if err != nil {
			return nil, err
		}
		policy := toShippingPolicy(wire)
		c.commitShipping(ctx, wire, policy)
		return policy, nil
	})
	if err != nil {
		fetchFailure(KindShipping)
		c.logger.Warn().Err(err).Str("kind", string(KindShipping)).Msg("config fetch failed")
		if entry != nil {
			fallback(KindShipping, "stale")
			return entry.value
		}
		fallback(KindShipping, "default")
		return pricing.DefaultShippingPolicy()
	}
	return fetched.(pricing.ShippingPolicy)
}

// VolumeTiers returns the volume-discount tier set. A cheap version probe
// precedes the TTL check: a bumped server version evicts the entry
// regardless of remaining TTL, so promotions propagate without constant
// full refetches. A failed probe is ignored and the TTL governs.
func (c *Cache) VolumeTiers(ctx context.Context) pricing.TierSet {
	if c == nil {
		return pricing.DefaultTierSet()
	}
	now := c.now()

	c.mu.RLock()
	entry := c.tiers
	c.mu.RUnlock()

	if entry == nil {
		if loaded := c.loadPersistedTiers(ctx); loaded != nil {
			c.mu.Lock()
			c.tiers = loaded
			c.mu.Unlock()
			entry = loaded
		}
	}

	latest := int64(-1)
	if c.source != nil {
		if v, err := c.source.VolumeDiscountVersion(ctx); err != nil {
			c.logger.Debug().Err(err).Msg("tier version probe failed")
		} else {
			latest = v
			if entry != nil && v > entry.version {
				versionEviction()
				c.logger.Info().Int64("cached", entry.version).Int64("latest", v).Msg("tier version bumped, evicting")
				c.evictTiers(ctx)
				entry = nil
			}
		}
	}

	if entry != nil && now.Sub(entry.fetchedAt) < c.tiersTTL {
		cacheHit(KindVolumeTiers, "memory")
		return entry.value
	}

	cacheMiss(KindVolumeTiers)
	fetched, err, _ := c.group.Do(string(KindVolumeTiers), func() (any, error) {
		if c.source == nil {
			return nil, errors.New("no configuration source")
		}
		wire, err := c.source.VolumeDiscountConfig(ctx)
		if err != nil {
			return nil, err
		}
		version := latest
		if version < 0 {
			version = 0
		}
		set := toTierSet(wire)
		c.commitTiers(ctx, wire, set, version)
		return set, nil
	})
	if err != nil {
		fetchFailure(KindVolumeTiers)
		c.logger.Warn().Err(err).Str("kind", string(KindVolumeTiers)).Msg("config fetch failed")
		if entry != nil {
			fallback(KindVolumeTiers, "stale")
			return entry.value
		}
		fallback(KindVolumeTiers, "default")
		return pricing.DefaultTierSet()
	}
	return fetched.(pricing.TierSet)
}

// Refresh forces a fetch and overwrite for the kind.
func (c *Cache) Refresh(ctx context.Context, kind Kind) error {
	if c == nil || c.source == nil {
		return errors.New("shopconfig: cache not configured")
	}
	switch kind {
	case KindShipping:
		wire, err := c.source.ShippingConfig(ctx)
		if err != nil {
			return err
		}
		c.commitShipping(ctx, wire, toShippingPolicy(wire))
		return nil
	case KindVolumeTiers:
		wire, err := c.source.VolumeDiscountConfig(ctx)
		if err != nil {
			return err
		}
		version := int64(0)
		if v, verr := c.source.VolumeDiscountVersion(ctx); verr == nil {
			version = v
		}
		c.commitTiers(ctx, wire, toTierSet(wire), version)
		return nil
	default:
		return ErrUnknownKind
	}
}

// Clear removes the memory and persisted copies for exactly one kind.
// Clearing one kind never evicts another.
func (c *Cache) Clear(ctx context.Context, kind Kind) error {
	if c == nil {
		return nil
	}
	switch kind {
	case KindShipping:
		c.mu.Lock()
		c.shipping = nil
		c.mu.Unlock()
	case KindVolumeTiers:
		c.mu.Lock()
		c.tiers = nil
		c.mu.Unlock()
	default:
		return ErrUnknownKind
	}
	if err := c.store.Remove(ctx, c.key(kind)); err != nil {
		return err
	}
	return nil
}

// ClearAll clears every managed kind.
func (c *Cache) ClearAll(ctx context.Context) error {
	var joined error
	for _, kind := range Kinds() {
		if err := c.Clear(ctx, kind); err != nil {
			joined = errors.Join(joined, err)
		}
	}
	return joined
}

// ParseKind maps an external kind label onto a Kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.TrimSpace(strings.ToLower(value))) {
	case KindShipping:
		return KindShipping, nil
	case KindVolumeTiers:
		return KindVolumeTiers, nil
	default:
		return "", ErrUnknownKind
	}
}

func (c *Cache) key(kind Kind) string {
	return c.keyPrefix + string(kind)
}

func (c *Cache) loadPersistedShipping(ctx context.Context) *shippingEntry {
	raw, ok, err := c.store.Get(ctx, c.key(KindShipping))
	if err != nil || !ok {
		if err != nil {
			c.logger.Debug().Err(err).Msg("load persisted shipping config")
		}
		return nil
	}
	var pe persistedEntry
	if err := json.Unmarshal([]byte(raw), &pe); err != nil {
		return nil
	}
	var wire ShippingConfig
	if err := json.Unmarshal(pe.Value, &wire); err != nil {
		return nil
	}
	return &shippingEntry{value: toShippingPolicy(wire), fetchedAt: time.UnixMilli(pe.Timestamp)}
}

func (c *Cache) loadPersistedTiers(ctx context.Context) *tiersEntry {
	raw, ok, err := c.store.Get(ctx, c.key(KindVolumeTiers))
	if err != nil || !ok {
		if err != nil {
			c.logger.Debug().Err(err).Msg("load persisted tier config")
		}
		return nil
	}
	var pe persistedEntry
	if err := json.Unmarshal([]byte(raw), &pe); err != nil {
		return nil
	}
	var wire VolumeDiscountConfig
	if err := json.Unmarshal(pe.Value, &wire); err != nil {
		return nil
	}
	entry := &tiersEntry{value: toTierSet(wire), fetchedAt: time.UnixMilli(pe.Timestamp)}
	if pe.Version != nil {
		entry.version = *pe.Version
	}
	return entry
}

func (c *Cache) commitShipping(ctx context.Context, wire ShippingConfig, policy pricing.ShippingPolicy) {
	fetchedAt := c.now()
	c.mu.Lock()
	c.shipping = &shippingEntry{value: policy, fetchedAt: fetchedAt}
	c.mu.Unlock()
	c.persist(ctx, KindShipping, wire, fetchedAt, nil)
}

func (c *Cache) commitTiers(ctx context.Context, wire VolumeDiscountConfig, set pricing.TierSet, version int64) {
	fetchedAt := c.now()
	c.mu.Lock()
	c.tiers = &tiersEntry{value: set, fetchedAt: fetchedAt, version: version}
	c.mu.Unlock()
	c.persist(ctx, KindVolumeTiers, wire, fetchedAt, &version)
}

func (c *Cache) persist(ctx context.Context, kind Kind, wire any, fetchedAt time.Time, version *int64) {
	value, err := json.Marshal(wire)
	if err != nil {
		return
	}
	blob, err := json.Marshal(persistedEntry{Value: value, Timestamp: fetchedAt.UnixMilli(), Version: version})
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, c.key(kind), string(blob)); err != nil {
		c.logger.Debug().Err(err).Str("kind", string(kind)).Msg("persist config entry")
	}
}

func (c *Cache) evictTiers(ctx context.Context) {
	c.mu.Lock()
	c.tiers = nil
	c.mu.Unlock()
	if err := c.store.Remove(ctx, c.key(KindVolumeTiers)); err != nil {
		c.logger.Debug().Err(err).Msg("remove persisted tier config")
	}
}

func toShippingPolicy(wire ShippingConfig) pricing.ShippingPolicy {
	return pricing.ShippingPolicy{
		Enabled:       wire.Enabled,
		FreeThreshold: decimal.NewFromFloat(wire.FreeThreshold),
		DefaultCost:   decimal.NewFromFloat(wire.DefaultCost),
	}
}

func toTierSet(wire VolumeDiscountConfig) pricing.TierSet {
	tiers := make([]pricing.Tier, 0, len(wire.Tiers))
	for _, t := range wire.Tiers {
		tiers = append(tiers, pricing.Tier{
			Quantity:        t.Quantity,
			DiscountPercent: decimal.NewFromFloat(t.Discount),
			Label:           t.Label,
		})
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Quantity < tiers[j].Quantity })
	return pricing.TierSet{Enabled: wire.Enabled, Tiers: tiers, Stackable: wire.Stackable}
}

func cacheHit(kind Kind, layer string) {
	if obs.ConfigCacheHits != nil {
		obs.ConfigCacheHits.WithLabelValues(string(kind), layer).Inc()
	}
}

func cacheMiss(kind Kind) {
	if obs.ConfigCacheMisses != nil {
		obs.ConfigCacheMisses.WithLabelValues(string(kind)).Inc()
	}
}

func fetchFailure(kind Kind) {
	if obs.ConfigFetchFailures != nil {
		obs.ConfigFetchFailures.WithLabelValues(string(kind)).Inc()
	}
}

func fallback(kind Kind, mode string) {
	if obs.ConfigFallbacks != nil {
		obs.ConfigFallbacks.WithLabelValues(string(kind), mode).Inc()
	}
}

func versionEviction() {
	if obs.ConfigVersionEvictions != nil {
		obs.ConfigVersionEvictions.Inc()
	}
}
