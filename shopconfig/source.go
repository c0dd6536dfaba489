// Package shopconfig resolves the storefront's remotely configurable
// pricing parameters (shipping policy, volume-discount tiers, tax rate)
// with TTL caching, persistent carry-over, and hardcoded fallbacks.
package shopconfig

import "context"

// Kind identifies one independently cached configuration fact.
type Kind string

const (
	// KindShipping is the shipping policy configuration.
	KindShipping Kind = "shipping"
	// KindVolumeTiers is the volume-discount tier configuration.
	KindVolumeTiers Kind = "volume-tiers"
)

// Kinds lists every remotely fetched configuration kind.
func Kinds() []Kind {
	return []Kind{KindShipping, KindVolumeTiers}
}

// ShippingConfig is the remote shipping policy payload.
type ShippingConfig struct {
	Enabled       bool    `json:"enabled"`
	FreeThreshold float64 `json:"freeThreshold" validate:"gte=0"`
	DefaultCost   float64 `json:"defaultCost" validate:"gte=0"`
}

// VolumeTierConfig is one remote tier rule.
type VolumeTierConfig struct {
	Quantity int     `json:"quantity" validate:"gte=1"`
	Discount float64 `json:"discount" validate:"gte=0,lte=100"`
	Label    string  `json:"label"`
}

// VolumeDiscountConfig is the remote volume-discount payload.
type VolumeDiscountConfig struct {
	Enabled   bool               `json:"enabled"`
	Tiers     []VolumeTierConfig `json:"tiers" validate:"dive"`
	Stackable bool               `json:"stackable"`
}

// Source supplies the three configuration facts from the backend. It is
// treated as unreliable and possibly slow; every method may fail and the
// cache recovers from each failure on its own.
type Source interface {
	ShippingConfig(ctx context.Context) (ShippingConfig, error)
	VolumeDiscountConfig(ctx context.Context) (VolumeDiscountConfig, error)
	VolumeDiscountVersion(ctx context.Context) (int64, error)
}
