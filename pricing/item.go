package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a live cart entry priced from catalog data. UnitBasePrice is the
// seller's listed price before any discount. Callers guarantee
// UnitBasePrice >= 0 and Quantity >= 1; the pipeline does not re-validate
// upstream cart integrity.
type Item struct {
	ProductID             uuid.UUID       `json:"productId"`
	Title                 string          `json:"title,omitempty"`
	UnitBasePrice         decimal.Decimal `json:"unitBasePrice"`
	Quantity              int             `json:"qty"`
	SellerDiscountPercent decimal.Decimal `json:"sellerDiscountPercent"`

	// DisplayUnitPrice is an optional pre-resolved price carried for list
	// rendering. It never feeds the calculation; totals always derive from
	// UnitBasePrice so a stale display cache cannot skew a charge.
	DisplayUnitPrice *decimal.Decimal `json:"displayUnitPrice,omitempty"`
}

// Coupon is a cart-level discount applied once to the subtotal after seller
// and volume discounts, never to shipping. Percent is primary; a
// fixed-amount coupon carries Amount with Percent zero.
type Coupon struct {
	Code    string          `json:"code"`
	Percent decimal.Decimal `json:"percent"`
	Amount  decimal.Decimal `json:"amount"`
}

// Tier maps a quantity threshold to a discount percentage. Thresholds are
// unique within one tier set; the applicable tier for a quantity is the one
// with the largest threshold not exceeding it.
type Tier struct {
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount"`
	Label           string          `json:"label"`
}

// TierSet is the volume-discount configuration. Tiers are kept sorted
// ascending by Quantity. A disabled or empty set yields zero volume
// discount for every quantity.
type TierSet struct {
	Enabled   bool   `json:"enabled"`
	Tiers     []Tier `json:"tiers"`
	Stackable bool   `json:"stackable"`
}

// ShippingPolicy controls shipping cost. When Enabled is false the shipping
// cost is always zero regardless of threshold.
type ShippingPolicy struct {
	Enabled       bool            `json:"enabled"`
	FreeThreshold decimal.Decimal `json:"freeThreshold"`
	DefaultCost   decimal.Decimal `json:"defaultCost"`
}

// Resolved is the configuration snapshot a single calculation runs against.
// Pinning the snapshot up front keeps every stage of one calculation on the
// same configuration even if the cache refreshes mid-flight.
type Resolved struct {
	Shipping ShippingPolicy
	Tiers    TierSet
	TaxRate  decimal.Decimal
}
