package pricing

import "github.com/shopspring/decimal"

// Fallback configuration used when the remote source has never succeeded.
// One documented set; components must never carry their own copies.
var (
	defaultFreeThreshold = decimal.NewFromInt(60)
	defaultShippingCost  = decimal.NewFromInt(8)
	defaultTaxRate       = decimal.NewFromFloat(0.15)
)

// DefaultShippingPolicy returns the hardcoded shipping fallback.
func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		Enabled:       true,
		FreeThreshold: defaultFreeThreshold,
		DefaultCost:   defaultShippingCost,
	}
}

// DefaultTierSet returns the volume-discount fallback: no tiers, so every
// quantity prices without a volume discount.
func DefaultTierSet() TierSet {
	return TierSet{Enabled: false}
}

// DefaultTaxRate returns the fallback tax rate as a fraction.
func DefaultTaxRate() decimal.Decimal {
	return defaultTaxRate
}

// DefaultResolved bundles all fallbacks into one snapshot.
func DefaultResolved() Resolved {
	return Resolved{
		Shipping: DefaultShippingPolicy(),
		Tiers:    DefaultTierSet(),
		TaxRate:  DefaultTaxRate(),
	}
}
